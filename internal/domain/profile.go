package domain

import (
	"context"
	"time"
)

// TeeShirtSize enumerates t-shirt sizes for a profile.
type TeeShirtSize string

const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

// IsTeeShirtSize reports whether name is a recognized t-shirt size.
func IsTeeShirtSize(name string) bool {
	switch TeeShirtSize(name) {
	case TeeShirtNotSpecified, TeeShirtXSM, TeeShirtXSW, TeeShirtSM, TeeShirtSW,
		TeeShirtMM, TeeShirtMW, TeeShirtLM, TeeShirtLW, TeeShirtXLM, TeeShirtXLW,
		TeeShirtXXLM, TeeShirtXXLW, TeeShirtXXXLM, TeeShirtXXXLW:
		return true
	}
	return false
}

// Requester is the authenticated identity attached to a request. It is
// supplied by the identity collaborator; services only check that UserID is
// non-empty.
type Requester struct {
	UserID   string
	Email    string
	Nickname string
}

// Profile is a user profile, created lazily on first access and never
// deleted. The two reference collections hold no duplicates.
type Profile struct {
	UserID                string       `json:"user_id"`
	DisplayName           string       `json:"display_name"`
	MainEmail             string       `json:"main_email"`
	TeeShirtSize          TeeShirtSize `json:"tee_shirt_size"`
	ConferenceIDsToAttend []int64      `json:"conference_ids_to_attend"`
	WishlistSessionIDs    []int64      `json:"wishlist_session_ids"`
}

// SaveProfileInput carries the user-modifiable profile fields. Empty
// fields are left untouched.
type SaveProfileInput struct {
	DisplayName  string
	TeeShirtSize string
}

// ProfileRepository defines the interface for profile storage. The
// attendance and wishlist membership sets live in join tables and are
// mutated only by the RegistrationRepository.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	// GetMulti batch-fetches profiles keyed by user ID; absent profiles are
	// simply missing from the result map.
	GetMulti(ctx context.Context, userIDs []string) (map[string]*Profile, error)
	ListAttendingConferenceIDs(ctx context.Context, userID string) ([]int64, error)
	ListWishlistSessionIDs(ctx context.Context, userID string) ([]int64, error)
}

// ProfileService defines the business logic for user profiles.
type ProfileService interface {
	// Get returns the requester's profile, creating it from the identity's
	// nickname and email on first access.
	Get(ctx context.Context, requester Requester) (*Profile, error)
	Save(ctx context.Context, requester Requester, in *SaveProfileInput) (*Profile, error)
}

// RegistrationRepository runs the cross-entity transactions for seat and
// wishlist accounting.
type RegistrationRepository interface {
	// Register adds the conference to the profile's attendance set and
	// decrements seatsAvailable, atomically. ErrNotFound if the conference
	// is absent; ErrConflict if already registered or sold out.
	Register(ctx context.Context, userID string, conferenceID int64) error
	// Unregister removes the conference from the attendance set and
	// increments seatsAvailable, atomically. Returns false (not an error)
	// when the profile was not registered.
	Unregister(ctx context.Context, userID string, conferenceID int64) (bool, error)
	// AddToWishlist appends the session to the profile's wishlist and
	// increments the session's wishlisted counter in one transaction,
	// retried at most 2 times on transient contention. ErrNotFound if the
	// session is absent; ErrConflict if already wishlisted.
	AddToWishlist(ctx context.Context, userID string, sessionID int64) error
}

// AttendeeService defines attendee-facing registration operations.
type AttendeeService interface {
	// Register registers the requester for the conference; true on success.
	Register(ctx context.Context, requester Requester, conferenceID int64) (bool, error)
	// Unregister is an idempotent no-op signal: false means the requester
	// was not registered, with no mutation.
	Unregister(ctx context.Context, requester Requester, conferenceID int64) (bool, error)
	ListAttending(ctx context.Context, requester Requester) ([]*ConferenceWithOrganizer, error)
}

// WishlistService defines wishlist accounting operations.
type WishlistService interface {
	Add(ctx context.Context, requester Requester, sessionID int64) (*Profile, error)
	List(ctx context.Context, requester Requester) ([]*Session, error)
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated requester.
type TokenVerifier interface {
	Verify(token string) (Requester, error)
}
