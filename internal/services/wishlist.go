package services

import (
	"context"
	"fmt"

	"conferencecentral/internal/domain"
)

type wishlistService struct {
	profileRepo      domain.ProfileRepository
	sessionRepo      domain.SessionRepository
	registrationRepo domain.RegistrationRepository
}

func NewWishlistService(
	profileRepo domain.ProfileRepository,
	sessionRepo domain.SessionRepository,
	registrationRepo domain.RegistrationRepository,
) domain.WishlistService {
	return &wishlistService{
		profileRepo:      profileRepo,
		sessionRepo:      sessionRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *wishlistService) Add(ctx context.Context, requester domain.Requester, sessionID int64) (*domain.Profile, error) {
	prof, err := getOrCreate(ctx, s.profileRepo, requester)
	if err != nil {
		return nil, err
	}
	if err := s.registrationRepo.AddToWishlist(ctx, prof.UserID, sessionID); err != nil {
		return nil, err
	}
	wishlist, err := s.profileRepo.ListWishlistSessionIDs(ctx, prof.UserID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	prof.WishlistSessionIDs = wishlist
	return prof, nil
}

func (s *wishlistService) List(ctx context.Context, requester domain.Requester) ([]*domain.Session, error) {
	prof, err := getOrCreate(ctx, s.profileRepo, requester)
	if err != nil {
		return nil, err
	}
	ids, err := s.profileRepo.ListWishlistSessionIDs(ctx, prof.UserID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	sessions, err := s.sessionRepo.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get wishlisted sessions: %w", err)
	}
	return sessions, nil
}
