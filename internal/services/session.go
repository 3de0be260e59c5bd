package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

// topWishlistedLimit caps the most-wishlisted sessions result.
const topWishlistedLimit = 10

type sessionService struct {
	confRepo    domain.ConferenceRepository
	sessionRepo domain.SessionRepository
	dispatcher  domain.TaskDispatcher
	logger      *slog.Logger
}

func NewSessionService(
	confRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	dispatcher domain.TaskDispatcher,
	logger *slog.Logger,
) domain.SessionService {
	return &sessionService{
		confRepo:    confRepo,
		sessionRepo: sessionRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

func (s *sessionService) Create(ctx context.Context, requester domain.Requester, conferenceID int64, in *domain.CreateSessionInput) (*domain.Session, error) {
	if requester.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	conf, err := s.confRepo.GetByID(ctx, conferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference with id %d", domain.ErrNotFound, conferenceID)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conf.OwnerID != requester.UserID {
		return nil, fmt.Errorf("%w: only the conference owner can create sessions", domain.ErrForbidden)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if in.StartTime <= 0 || in.StartTime > 24 {
		return nil, fmt.Errorf("%w: startTime must be an hour on the 24-hour clock, e.g. 17", domain.ErrValidation)
	}

	typeOfSession := domain.SessionTypeNotSpecified
	if in.TypeOfSession != "" {
		name := strings.ToUpper(in.TypeOfSession)
		if !domain.IsSessionType(name) {
			return nil, fmt.Errorf("%w: unknown session type %q", domain.ErrValidation, in.TypeOfSession)
		}
		typeOfSession = domain.SessionType(name)
	}

	dayOfConf := in.DayOfConf
	if dayOfConf < 1 {
		dayOfConf = 1
	}

	sess := &domain.Session{
		ConferenceID:  conferenceID,
		Name:          in.Name,
		Highlights:    in.Highlights,
		Speaker:       normalizeSpeaker(in.Speaker),
		Duration:      in.Duration,
		TypeOfSession: typeOfSession,
		DayOfConf:     dayOfConf,
		StartTime:     in.StartTime,
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	// Fire-and-forget featured-speaker recompute with the speaker just written.
	payload := &domain.FeaturedSpeakerPayload{ConferenceID: conferenceID, Speaker: sess.Speaker}
	if err := s.dispatcher.Enqueue(ctx, domain.TaskTypeFeaturedSpeaker, payload); err != nil {
		s.logger.Warn("enqueue featured speaker refresh failed", "conference_id", conferenceID, "error", err)
	}

	return sess, nil
}

func (s *sessionService) ListForConference(ctx context.Context, conferenceID int64) ([]*domain.Session, error) {
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListByConferenceID(ctx, conferenceID)
}

func (s *sessionService) Query(ctx context.Context, filters []domain.Filter, conferenceID *int64) ([]*domain.Session, error) {
	if conferenceID != nil {
		if err := s.requireConference(ctx, *conferenceID); err != nil {
			return nil, err
		}
	}
	parsed, err := query.ParseSessionFilters(filters)
	if err != nil {
		return nil, err
	}
	q := query.Build(query.KindSession, parsed, conferenceID)
	return s.sessionRepo.Query(ctx, q)
}

func (s *sessionService) ByDay(ctx context.Context, conferenceID int64, f domain.Filter) ([]*domain.Session, error) {
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	if f.Field != "DAY" {
		return nil, fmt.Errorf("%w: can only filter by day", domain.ErrInvalidFilter)
	}
	op, ok := query.OperatorSymbol(f.Operator)
	if !ok {
		return nil, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidFilter, f.Operator)
	}
	day, err := strconv.Atoi(f.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: day requires an integer value", domain.ErrInvalidFilter)
	}
	q := &domain.Query{
		Where: []string{"conference_id = $1", fmt.Sprintf("day_of_conf %s $2", op)},
		Args:  []any{conferenceID, day},
		Order: []string{"start_time"},
	}
	return s.sessionRepo.Query(ctx, q)
}

func (s *sessionService) ByType(ctx context.Context, conferenceID int64, f domain.Filter) ([]*domain.Session, error) {
	if err := s.requireConference(ctx, conferenceID); err != nil {
		return nil, err
	}
	if f.Field != "TYPE" {
		return nil, fmt.Errorf("%w: can only filter by type", domain.ErrInvalidFilter)
	}
	op, ok := query.OperatorSymbol(f.Operator)
	if !ok {
		return nil, fmt.Errorf("%w: unknown operator %q", domain.ErrInvalidFilter, f.Operator)
	}
	value := strings.ToUpper(f.Value)
	if !domain.IsSessionType(value) {
		return nil, fmt.Errorf("%w: not a valid session type %q", domain.ErrInvalidFilter, f.Value)
	}
	q := &domain.Query{
		Where: []string{"conference_id = $1", fmt.Sprintf("type_of_session %s $2", op)},
		Args:  []any{conferenceID, value},
		Order: []string{"start_time"},
	}
	return s.sessionRepo.Query(ctx, q)
}

func (s *sessionService) BySpeaker(ctx context.Context, speaker string) ([]*domain.Session, error) {
	// Speaker values are lower-cased at write time; match them the same way.
	q := &domain.Query{
		Where: []string{"speaker = $1"},
		Args:  []any{normalizeSpeaker(speaker)},
		Order: []string{"start_time", "name"},
	}
	return s.sessionRepo.Query(ctx, q)
}

func (s *sessionService) TopWishlisted(ctx context.Context) ([]*domain.Session, error) {
	return s.sessionRepo.TopWishlisted(ctx, topWishlistedLimit)
}

func (s *sessionService) requireConference(ctx context.Context, conferenceID int64) error {
	if _, err := s.confRepo.GetByID(ctx, conferenceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: no conference with id %d", domain.ErrNotFound, conferenceID)
		}
		return fmt.Errorf("get conference: %w", err)
	}
	return nil
}

// normalizeSpeaker is the single speaker normalization policy, applied at
// write time and at every compare site.
func normalizeSpeaker(speaker string) string {
	return strings.ToLower(strings.TrimSpace(speaker))
}
