package domain

import (
	"context"
	"time"
)

// Conference represents a conference owned by the profile that created it.
// SeatsAvailable is initialized to MaxAttendees at creation and is mutated
// only by the registration engine, never below 0 or above MaxAttendees.
type Conference struct {
	ID             int64      `json:"id"`
	OwnerID        string     `json:"owner_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Topics         []string   `json:"topics"`
	City           string     `json:"city"`
	StartDate      *time.Time `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	Month          int        `json:"month"`
	MaxAttendees   int        `json:"max_attendees"`
	SeatsAvailable int        `json:"seats_available"`
}

// ConferenceWithOrganizer bundles a conference with its organizer's display
// name. A missing organizer profile yields an empty display name.
type ConferenceWithOrganizer struct {
	Conference           *Conference `json:"conference"`
	OrganizerDisplayName string      `json:"organizer_display_name"`
}

// Defaults applied to unset optional conference fields at creation.
var (
	DefaultCity   = "Default City"
	DefaultTopics = []string{"Default", "Topic"}
)

// CreateConferenceInput carries the caller-supplied fields for a new
// conference. Dates are date-only strings (YYYY-MM-DD).
type CreateConferenceInput struct {
	Name         string   `validate:"required"`
	Description  string
	Topics       []string
	City         string
	StartDate    string
	EndDate      string
	MaxAttendees int `validate:"gte=0"`
}

// ConferenceUpdate is a sparse update: nil fields are left untouched,
// never nulled.
type ConferenceUpdate struct {
	Name         *string
	Description  *string
	Topics       []string
	City         *string
	StartDate    *time.Time
	EndDate      *time.Time
	Month        *int
	MaxAttendees *int
}

// UpdateConferenceInput carries the caller-supplied sparse fields for a
// conference update. Dates are date-only strings (YYYY-MM-DD).
type UpdateConferenceInput struct {
	Name         *string
	Description  *string
	Topics       []string
	City         *string
	StartDate    *string
	EndDate      *string
	MaxAttendees *int
}

// ConferenceRepository defines the interface for conference storage.
type ConferenceRepository interface {
	Create(ctx context.Context, conf *Conference) error
	GetByID(ctx context.Context, id int64) (*Conference, error)
	GetMulti(ctx context.Context, ids []int64) ([]*Conference, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Conference, error)
	Query(ctx context.Context, q *Query) ([]*Conference, error)
	// ListNearlySoldOutNames returns the names of conferences with
	// 0 < seatsAvailable <= 5 (name projection only).
	ListNearlySoldOutNames(ctx context.Context) ([]string, error)
	// UpdateOwned applies a sparse update inside a single transaction with
	// the ownership check. Returns ErrNotFound if the conference is absent
	// and ErrForbidden if requesterID is not the stored owner.
	UpdateOwned(ctx context.Context, id int64, requesterID string, upd *ConferenceUpdate) (*Conference, error)
}

// ConferenceService defines the business logic for conference management.
type ConferenceService interface {
	Create(ctx context.Context, requester Requester, in *CreateConferenceInput) (*Conference, error)
	Update(ctx context.Context, requester Requester, id int64, in *UpdateConferenceInput) (*ConferenceWithOrganizer, error)
	Get(ctx context.Context, id int64) (*ConferenceWithOrganizer, error)
	ListCreatedBy(ctx context.Context, requester Requester) ([]*ConferenceWithOrganizer, error)
	Query(ctx context.Context, filters []Filter) ([]*ConferenceWithOrganizer, error)
}
