package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
)

type attendeeService struct {
	confRepo         domain.ConferenceRepository
	profileRepo      domain.ProfileRepository
	registrationRepo domain.RegistrationRepository
	dispatcher       domain.TaskDispatcher
	logger           *slog.Logger
}

func NewAttendeeService(
	confRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	registrationRepo domain.RegistrationRepository,
	dispatcher domain.TaskDispatcher,
	logger *slog.Logger,
) domain.AttendeeService {
	return &attendeeService{
		confRepo:         confRepo,
		profileRepo:      profileRepo,
		registrationRepo: registrationRepo,
		dispatcher:       dispatcher,
		logger:           logger,
	}
}

func (s *attendeeService) Register(ctx context.Context, requester domain.Requester, conferenceID int64) (bool, error) {
	if _, err := getOrCreate(ctx, s.profileRepo, requester); err != nil {
		return false, err
	}
	if err := s.registrationRepo.Register(ctx, requester.UserID, conferenceID); err != nil {
		return false, err
	}
	s.refreshAnnouncement(ctx, conferenceID)
	return true, nil
}

func (s *attendeeService) Unregister(ctx context.Context, requester domain.Requester, conferenceID int64) (bool, error) {
	if _, err := getOrCreate(ctx, s.profileRepo, requester); err != nil {
		return false, err
	}
	removed, err := s.registrationRepo.Unregister(ctx, requester.UserID, conferenceID)
	if err != nil {
		return false, err
	}
	if removed {
		s.refreshAnnouncement(ctx, conferenceID)
	}
	return removed, nil
}

// refreshAnnouncement enqueues a recompute of the nearly-sold-out
// announcement after a seat count changed. Best-effort: the cache entry is
// derived state and self-corrects on the next trigger.
func (s *attendeeService) refreshAnnouncement(ctx context.Context, conferenceID int64) {
	if err := s.dispatcher.Enqueue(ctx, domain.TaskTypeAnnouncement, nil); err != nil {
		s.logger.Warn("enqueue announcement refresh failed", "conference_id", conferenceID, "error", err)
	}
}

func (s *attendeeService) ListAttending(ctx context.Context, requester domain.Requester) ([]*domain.ConferenceWithOrganizer, error) {
	prof, err := getOrCreate(ctx, s.profileRepo, requester)
	if err != nil {
		return nil, err
	}
	ids, err := s.profileRepo.ListAttendingConferenceIDs(ctx, prof.UserID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	confs, err := s.confRepo.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get conferences: %w", err)
	}

	// Batch-fetch organizer display names.
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
