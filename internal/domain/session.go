package domain

import "context"

// SessionType enumerates the kinds of conference sessions.
type SessionType string

const (
	SessionTypeNotSpecified  SessionType = "NOT_SPECIFIED"
	SessionTypeLecture       SessionType = "LECTURE"
	SessionTypeKeynote       SessionType = "KEYNOTE"
	SessionTypeWorkshop      SessionType = "WORKSHOP"
	SessionTypeParty         SessionType = "PARTY"
	SessionTypeSeminars      SessionType = "SEMINARS"
	SessionTypeMeetups       SessionType = "MEETUPS"
	SessionTypeExhibition    SessionType = "EXHIBITION"
	SessionTypePresentations SessionType = "PRESENTATIONS"
)

// SessionTypeNames returns all session type names in declaration order.
func SessionTypeNames() []string {
	return []string{
		string(SessionTypeNotSpecified),
		string(SessionTypeLecture),
		string(SessionTypeKeynote),
		string(SessionTypeWorkshop),
		string(SessionTypeParty),
		string(SessionTypeSeminars),
		string(SessionTypeMeetups),
		string(SessionTypeExhibition),
		string(SessionTypePresentations),
	}
}

// IsSessionType reports whether name is a recognized session type.
func IsSessionType(name string) bool {
	for _, t := range SessionTypeNames() {
		if t == name {
			return true
		}
	}
	return false
}

// Session represents a talk scheduled under exactly one conference.
// StartTime is an hour on the 24-hour clock in (0, 24]. Speaker is stored
// lower-cased. Wishlisted counts how many profiles wishlisted the session.
type Session struct {
	ID            int64       `json:"id"`
	ConferenceID  int64       `json:"conference_id"`
	Name          string      `json:"name"`
	Highlights    string      `json:"highlights"`
	Speaker       string      `json:"speaker"`
	Duration      int         `json:"duration"`
	TypeOfSession SessionType `json:"type_of_session"`
	DayOfConf     int         `json:"day_of_conf"`
	StartTime     int         `json:"start_time"`
	Wishlisted    int         `json:"wishlisted"`
}

// CreateSessionInput carries the caller-supplied fields for a new session.
type CreateSessionInput struct {
	Name          string `validate:"required"`
	Highlights    string
	Speaker       string
	Duration      int `validate:"gte=0"`
	TypeOfSession string
	DayOfConf     int
	StartTime     int
}

// SessionRepository defines the interface for session storage.
type SessionRepository interface {
	Create(ctx context.Context, sess *Session) error
	GetMulti(ctx context.Context, ids []int64) ([]*Session, error)
	ListByConferenceID(ctx context.Context, conferenceID int64) ([]*Session, error)
	Query(ctx context.Context, q *Query) ([]*Session, error)
	TopWishlisted(ctx context.Context, limit int) ([]*Session, error)
	// TopSpeaker returns the speaker appearing in the most sessions of the
	// conference and that count. Ties break to the lexicographically
	// smallest name. Returns ErrNotFound when the conference has no
	// sessions with a speaker.
	TopSpeaker(ctx context.Context, conferenceID int64) (speaker string, count int, err error)
	// ListNamesBySpeaker returns the session names for a speaker within one
	// conference (name projection only).
	ListNamesBySpeaker(ctx context.Context, conferenceID int64, speaker string) ([]string, error)
}

// SessionService defines the business logic for session management and
// session queries.
type SessionService interface {
	Create(ctx context.Context, requester Requester, conferenceID int64, in *CreateSessionInput) (*Session, error)
	ListForConference(ctx context.Context, conferenceID int64) ([]*Session, error)
	// Query runs a multi-filter session query, optionally scoped to one
	// conference's sessions.
	Query(ctx context.Context, filters []Filter, conferenceID *int64) ([]*Session, error)
	ByDay(ctx context.Context, conferenceID int64, f Filter) ([]*Session, error)
	ByType(ctx context.Context, conferenceID int64, f Filter) ([]*Session, error)
	BySpeaker(ctx context.Context, speaker string) ([]*Session, error)
	TopWishlisted(ctx context.Context) ([]*Session, error)
}
