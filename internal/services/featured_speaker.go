package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"conferencecentral/internal/domain"
)

var titleCaser = cases.Title(language.English)

type featuredSpeakerService struct {
	confRepo    domain.ConferenceRepository
	sessionRepo domain.SessionRepository
	cache       domain.Cache
}

func NewFeaturedSpeakerService(
	confRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	cache domain.Cache,
) domain.FeaturedSpeakerService {
	return &featuredSpeakerService{
		confRepo:    confRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
	}
}

// Refresh recomputes the featured-speaker entry for a conference after
// addedSpeaker was written to a new session. The entry is cached only when
// the just-added speaker became (or stayed) the speaker with the most
// sessions and appears more than once; otherwise any existing entry is
// deleted. Safe to run concurrently with session writes: a stale snapshot
// self-corrects on the next trigger.
func (s *featuredSpeakerService) Refresh(ctx context.Context, conferenceID int64, addedSpeaker string) error {
	conf, err := s.confRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: no conference with id %d", domain.ErrNotFound, conferenceID)
		}
		return fmt.Errorf("get conference: %w", err)
	}

	key := domain.FeaturedSpeakerCacheKey(conferenceID)

	topSpeaker, count, err := s.sessionRepo.TopSpeaker(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.cache.Delete(ctx, key)
		}
		return fmt.Errorf("count speakers: %w", err)
	}

	if count <= 1 || topSpeaker != normalizeSpeaker(addedSpeaker) {
		return s.cache.Delete(ctx, key)
	}

	sessionNames, err := s.sessionRepo.ListNamesBySpeaker(ctx, conferenceID, topSpeaker)
	if err != nil {
		return fmt.Errorf("list sessions for speaker: %w", err)
	}
	entry := &domain.FeaturedSpeaker{
		Name:           titleCaser.String(topSpeaker),
		ConferenceName: titleCaser.String(conf.Name),
		Sessions:       sessionNames,
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal featured speaker: %w", err)
	}
	return s.cache.Set(ctx, key, string(raw), domain.FeaturedSpeakerTTL)
}

func (s *featuredSpeakerService) Get(ctx context.Context, conferenceID int64) (*domain.FeaturedSpeaker, error) {
	raw, ok, err := s.cache.Get(ctx, domain.FeaturedSpeakerCacheKey(conferenceID))
	if err != nil {
		return nil, fmt.Errorf("get featured speaker: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: no featured speaker for conference %d", domain.ErrNotFound, conferenceID)
	}
	entry := &domain.FeaturedSpeaker{}
	if err := json.Unmarshal([]byte(raw), entry); err != nil {
		return nil, fmt.Errorf("unmarshal featured speaker: %w", err)
	}
	return entry, nil
}
