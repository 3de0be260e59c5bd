package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/query"
)

const dateLayout = "2006-01-02"

type conferenceService struct {
	confRepo    domain.ConferenceRepository
	profileRepo domain.ProfileRepository
	dispatcher  domain.TaskDispatcher
	logger      *slog.Logger
}

func NewConferenceService(
	confRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	dispatcher domain.TaskDispatcher,
	logger *slog.Logger,
) domain.ConferenceService {
	return &conferenceService{
		confRepo:    confRepo,
		profileRepo: profileRepo,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// parseDate parses a date-only string, tolerating a trailing time part.
func parseDate(s string) (time.Time, error) {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	return time.Parse(dateLayout, s)
}

func (s *conferenceService) Create(ctx context.Context, requester domain.Requester, in *domain.CreateConferenceInput) (*domain.Conference, error) {
	if requester.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	conf := &domain.Conference{
		OwnerID:      requester.UserID,
		Name:         in.Name,
		Description:  in.Description,
		Topics:       in.Topics,
		City:         in.City,
		MaxAttendees: in.MaxAttendees,
	}

	// Defaults for unset optional fields.
	if conf.City == "" {
		conf.City = domain.DefaultCity
	}
	if len(conf.Topics) == 0 {
		conf.Topics = append([]string(nil), domain.DefaultTopics...)
	}

	if in.StartDate != "" {
		start, err := parseDate(in.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad startDate %q", domain.ErrValidation, in.StartDate)
		}
		conf.StartDate = &start
		conf.Month = int(start.Month())
	}
	if in.EndDate != "" {
		end, err := parseDate(in.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad endDate %q", domain.ErrValidation, in.EndDate)
		}
		conf.EndDate = &end
	}

	if conf.MaxAttendees > 0 {
		conf.SeatsAvailable = conf.MaxAttendees
	}

	if err := s.confRepo.Create(ctx, conf); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}

	// Fire-and-forget owner confirmation; delivery is not retried here.
	payload := &domain.ConfirmationEmailPayload{
		Email:          requester.Email,
		ConferenceName: conf.Name,
		City:           conf.City,
		StartDate:      in.StartDate,
	}
	if err := s.dispatcher.Enqueue(ctx, domain.TaskTypeConfirmationEmail, payload); err != nil {
		s.logger.Warn("enqueue confirmation email failed", "conference_id", conf.ID, "error", err)
	}

	return conf, nil
}

func (s *conferenceService) Update(ctx context.Context, requester domain.Requester, id int64, in *domain.UpdateConferenceInput) (*domain.ConferenceWithOrganizer, error) {
	if requester.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}

	upd := &domain.ConferenceUpdate{
		Name:         in.Name,
		Description:  in.Description,
		Topics:       in.Topics,
		City:         in.City,
		MaxAttendees: in.MaxAttendees,
	}
	if in.StartDate != nil {
		start, err := parseDate(*in.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad startDate %q", domain.ErrValidation, *in.StartDate)
		}
		month := int(start.Month())
		upd.StartDate = &start
		upd.Month = &month
	}
	if in.EndDate != nil {
		end, err := parseDate(*in.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: bad endDate %q", domain.ErrValidation, *in.EndDate)
		}
		upd.EndDate = &end
	}

	conf, err := s.confRepo.UpdateOwned(ctx, id, requester.UserID, upd)
	if err != nil {
		return nil, err
	}
	return s.withOrganizer(ctx, conf), nil
}

func (s *conferenceService) Get(ctx context.Context, id int64) (*domain.ConferenceWithOrganizer, error) {
	conf, err := s.confRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference with id %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return s.withOrganizer(ctx, conf), nil
}

func (s *conferenceService) ListCreatedBy(ctx context.Context, requester domain.Requester) ([]*domain.ConferenceWithOrganizer, error) {
	if requester.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	confs, err := s.confRepo.ListByOwnerID(ctx, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return s.joinOrganizers(ctx, confs)
}

func (s *conferenceService) Query(ctx context.Context, filters []domain.Filter) ([]*domain.ConferenceWithOrganizer, error) {
	parsed, err := query.ParseConferenceFilters(filters)
	if err != nil {
		return nil, err
	}
	q := query.Build(query.KindConference, parsed, nil)
	confs, err := s.confRepo.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	return s.joinOrganizers(ctx, confs)
}

// withOrganizer joins one conference with its organizer's display name; a
// missing organizer profile yields an empty name, not an error.
func (s *conferenceService) withOrganizer(ctx context.Context, conf *domain.Conference) *domain.ConferenceWithOrganizer {
	displayName := ""
	if prof, err := s.profileRepo.Get(ctx, conf.OwnerID); err == nil {
		displayName = prof.DisplayName
	}
	return &domain.ConferenceWithOrganizer{Conference: conf, OrganizerDisplayName: displayName}
}

// joinOrganizers batch-fetches the organizer display names for a result
// list, never one conference at a time.
func (s *conferenceService) joinOrganizers(ctx context.Context, confs []*domain.Conference) ([]*domain.ConferenceWithOrganizer, error) {
	ownerIDs := make([]string, 0, len(confs))
	seen := make(map[string]bool)
	for _, c := range confs {
		if !seen[c.OwnerID] {
			seen[c.OwnerID] = true
			ownerIDs = append(ownerIDs, c.OwnerID)
		}
	}
	var profiles map[string]*domain.Profile
	if len(ownerIDs) > 0 {
		var err error
		profiles, err = s.profileRepo.GetMulti(ctx, ownerIDs)
		if err != nil {
			return nil, fmt.Errorf("get organizer profiles: %w", err)
		}
	}
	out := make([]*domain.ConferenceWithOrganizer, 0, len(confs))
	for _, c := range confs {
		displayName := ""
		if p, ok := profiles[c.OwnerID]; ok {
			displayName = p.DisplayName
		}
		out = append(out, &domain.ConferenceWithOrganizer{Conference: c, OrganizerDisplayName: displayName})
	}
	return out, nil
}
