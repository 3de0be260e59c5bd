package domain

import (
	"context"
	"fmt"
	"time"
)

// Cache is a TTL-bound key/value collaborator. The announcement and
// featured-speaker entries are purely derived state: the cache is never
// authoritative and may lag behind the store.
type Cache interface {
	// Get returns the cached value; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set writes the value; a zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes the key; deleting a missing key is a successful no-op.
	Delete(ctx context.Context, key string) error
}

// AnnouncementCacheKey holds the nearly-sold-out conferences announcement.
const AnnouncementCacheKey = "RECENT_ANNOUNCEMENTS"

// FeaturedSpeakerTTL bounds how long a featured-speaker entry stays cached.
const FeaturedSpeakerTTL = 600 * time.Second

// FeaturedSpeakerCacheKey returns the per-conference featured-speaker key.
func FeaturedSpeakerCacheKey(conferenceID int64) string {
	return fmt.Sprintf("FEATURED_SPEAKER_FOR_%d", conferenceID)
}

// FeaturedSpeaker is the cached featured-speaker entry for a conference:
// the speaker appearing in the most sessions, when that speaker was the one
// just added and appears more than once.
type FeaturedSpeaker struct {
	Name           string   `json:"name"`
	ConferenceName string   `json:"conf_name"`
	Sessions       []string `json:"sessions"`
}

// AnnouncementService derives the nearly-sold-out announcement.
type AnnouncementService interface {
	// Refresh recomputes the announcement, writing it to the cache or
	// deleting the entry when no conference qualifies. Returns the new
	// announcement ("" when none).
	Refresh(ctx context.Context) (string, error)
	// Get returns the cached announcement, "" when absent.
	Get(ctx context.Context) (string, error)
}

// FeaturedSpeakerService derives the per-conference featured speaker.
type FeaturedSpeakerService interface {
	// Refresh recomputes the entry after addedSpeaker was written to a new
	// session of the conference.
	Refresh(ctx context.Context, conferenceID int64, addedSpeaker string) error
	// Get returns the cached entry, ErrNotFound when absent or expired.
	Get(ctx context.Context, conferenceID int64) (*FeaturedSpeaker, error)
}
