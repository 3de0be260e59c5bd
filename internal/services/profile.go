package services

import (
	"context"
	"errors"
	"fmt"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo domain.ProfileRepository
}

func NewProfileService(profileRepo domain.ProfileRepository) domain.ProfileService {
	return &profileService{
		profileRepo: profileRepo,
	}
}

// getOrCreate returns the requester's profile, creating it on first access
// from the identity's nickname and email. Profiles are never deleted.
func getOrCreate(ctx context.Context, repo domain.ProfileRepository, requester domain.Requester) (*domain.Profile, error) {
	if requester.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	prof, err := repo.Get(ctx, requester.UserID)
	if err == nil {
		return prof, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	prof = &domain.Profile{
		UserID:       requester.UserID,
		DisplayName:  requester.Nickname,
		MainEmail:    requester.Email,
		TeeShirtSize: domain.TeeShirtNotSpecified,
	}
	if err := repo.Create(ctx, prof); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return prof, nil
}

func (s *profileService) Get(ctx context.Context, requester domain.Requester) (*domain.Profile, error) {
	prof, err := getOrCreate(ctx, s.profileRepo, requester)
	if err != nil {
		return nil, err
	}
	return s.withCollections(ctx, prof)
}

func (s *profileService) Save(ctx context.Context, requester domain.Requester, in *domain.SaveProfileInput) (*domain.Profile, error) {
	prof, err := getOrCreate(ctx, s.profileRepo, requester)
	if err != nil {
		return nil, err
	}

	changed := false
	if in.DisplayName != "" {
		prof.DisplayName = in.DisplayName
		changed = true
	}
	if in.TeeShirtSize != "" {
		if !domain.IsTeeShirtSize(in.TeeShirtSize) {
			return nil, fmt.Errorf("%w: unknown tee shirt size %q", domain.ErrValidation, in.TeeShirtSize)
		}
		prof.TeeShirtSize = domain.TeeShirtSize(in.TeeShirtSize)
		changed = true
	}
	if changed {
		if err := s.profileRepo.Update(ctx, prof); err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.withCollections(ctx, prof)
}

func (s *profileService) withCollections(ctx context.Context, prof *domain.Profile) (*domain.Profile, error) {
	attending, err := s.profileRepo.ListAttendingConferenceIDs(ctx, prof.UserID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	wishlist, err := s.profileRepo.ListWishlistSessionIDs(ctx, prof.UserID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	prof.ConferenceIDsToAttend = attending
	prof.WishlistSessionIDs = wishlist
	return prof, nil
}
