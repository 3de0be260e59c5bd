package services

import (
	"context"
	"fmt"
	"strings"

	"conferencecentral/internal/domain"
)

// announcementTpl formats the nearly-sold-out announcement.
const announcementTpl = "Last chance to attend! The following conferences are nearly sold out: %s"

type announcementService struct {
	confRepo domain.ConferenceRepository
	cache    domain.Cache
}

func NewAnnouncementService(confRepo domain.ConferenceRepository, cache domain.Cache) domain.AnnouncementService {
	return &announcementService{
		confRepo: confRepo,
		cache:    cache,
	}
}

func (s *announcementService) Refresh(ctx context.Context) (string, error) {
	names, err := s.confRepo.ListNearlySoldOutNames(ctx)
	if err != nil {
		return "", fmt.Errorf("list nearly sold out conferences: %w", err)
	}
	if len(names) == 0 {
		if err := s.cache.Delete(ctx, domain.AnnouncementCacheKey); err != nil {
			return "", fmt.Errorf("delete announcement: %w", err)
		}
		return "", nil
	}
	announcement := fmt.Sprintf(announcementTpl, strings.Join(names, ", "))
	// No expiry: the value is overwritten on the next refresh.
	if err := s.cache.Set(ctx, domain.AnnouncementCacheKey, announcement, 0); err != nil {
		return "", fmt.Errorf("set announcement: %w", err)
	}
	return announcement, nil
}

func (s *announcementService) Get(ctx context.Context) (string, error) {
	value, ok, err := s.cache.Get(ctx, domain.AnnouncementCacheKey)
	if err != nil {
		return "", fmt.Errorf("get announcement: %w", err)
	}
	if !ok {
		return "", nil
	}
	return value, nil
}
