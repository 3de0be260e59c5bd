package domain

import "context"

// Task type names shared between the dispatcher and the worker.
const (
	TaskTypeConfirmationEmail = "conference:confirmation_email"
	TaskTypeFeaturedSpeaker   = "speaker:refresh_featured"
	TaskTypeAnnouncement      = "announcement:refresh"
)

// ConfirmationEmailPayload carries the data for the owner confirmation
// email sent after a conference is created.
type ConfirmationEmailPayload struct {
	Email          string `json:"email"`
	ConferenceName string `json:"conference_name"`
	City           string `json:"city"`
	StartDate      string `json:"start_date"`
}

// FeaturedSpeakerPayload carries the conference reference and the speaker
// name just written, for the featured-speaker recompute.
type FeaturedSpeakerPayload struct {
	ConferenceID int64  `json:"conference_id"`
	Speaker      string `json:"speaker"`
}

// TaskDispatcher enqueues fire-and-forget tasks with at-least-once
// semantics; no result is observed by the caller.
type TaskDispatcher interface {
	Enqueue(ctx context.Context, taskType string, payload any) error
}
