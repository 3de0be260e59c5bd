package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeConferenceRepo is an in-memory ConferenceRepository for tests.
type fakeConferenceRepo struct {
	byID           map[int64]*domain.Conference
	nextID         int64
	nearlySoldOut  []string
	queryResult    []*domain.Conference
	lastQuery      *domain.Query
	createErr      error
	updateOwnedErr error
}

func newFakeConferenceRepo() *fakeConferenceRepo {
	return &fakeConferenceRepo{
		byID:   make(map[int64]*domain.Conference),
		nextID: 1,
	}
}

func (f *fakeConferenceRepo) Create(ctx context.Context, c *domain.Conference) error {
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = f.nextID
	f.nextID++
	f.byID[c.ID] = c
	return nil
}

func (f *fakeConferenceRepo) GetByID(ctx context.Context, id int64) (*domain.Conference, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConferenceRepo) GetMulti(ctx context.Context, ids []int64) ([]*domain.Conference, error) {
	out := make([]*domain.Conference, 0, len(ids))
	for _, id := range ids {
		if c, ok := f.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConferenceRepo) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Conference, error) {
	var out []*domain.Conference
	for id := int64(1); id < f.nextID; id++ {
		if c, ok := f.byID[id]; ok && c.OwnerID == ownerID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConferenceRepo) Query(ctx context.Context, q *domain.Query) ([]*domain.Conference, error) {
	f.lastQuery = q
	return f.queryResult, nil
}

func (f *fakeConferenceRepo) ListNearlySoldOutNames(ctx context.Context) ([]string, error) {
	return f.nearlySoldOut, nil
}

func (f *fakeConferenceRepo) UpdateOwned(ctx context.Context, id int64, requesterID string, upd *domain.ConferenceUpdate) (*domain.Conference, error) {
	if f.updateOwnedErr != nil {
		return nil, f.updateOwnedErr
	}
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if c.OwnerID != requesterID {
		return nil, domain.ErrForbidden
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.Topics != nil {
		c.Topics = upd.Topics
	}
	if upd.City != nil {
		c.City = *upd.City
	}
	if upd.StartDate != nil {
		c.StartDate = upd.StartDate
	}
	if upd.EndDate != nil {
		c.EndDate = upd.EndDate
	}
	if upd.Month != nil {
		c.Month = *upd.Month
	}
	if upd.MaxAttendees != nil {
		c.MaxAttendees = *upd.MaxAttendees
	}
	return c, nil
}

// fakeSessionRepo is an in-memory SessionRepository for tests.
type fakeSessionRepo struct {
	byID        map[int64]*domain.Session
	nextID      int64
	queryResult []*domain.Session
	lastQuery   *domain.Query
	createErr   error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{
		byID:   make(map[int64]*domain.Session),
		nextID: 1,
	}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.ID = f.nextID
	f.nextID++
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) GetMulti(ctx context.Context, ids []int64) ([]*domain.Session, error) {
	out := make([]*domain.Session, 0, len(ids))
	for _, id := range ids {
		if s, ok := f.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListByConferenceID(ctx context.Context, conferenceID int64) ([]*domain.Session, error) {
	var out []*domain.Session
	for id := int64(1); id < f.nextID; id++ {
		if s, ok := f.byID[id]; ok && s.ConferenceID == conferenceID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Query(ctx context.Context, q *domain.Query) ([]*domain.Session, error) {
	f.lastQuery = q
	return f.queryResult, nil
}

func (f *fakeSessionRepo) TopWishlisted(ctx context.Context, limit int) ([]*domain.Session, error) {
	var out []*domain.Session
	for id := int64(1); id < f.nextID; id++ {
		if s, ok := f.byID[id]; ok && s.Wishlisted > 0 {
			out = append(out, s)
		}
	}
	// Sort by wishlisted DESC, name to match repo.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Wishlisted > out[i].Wishlisted ||
				(out[j].Wishlisted == out[i].Wishlisted && out[j].Name < out[i].Name) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessionRepo) TopSpeaker(ctx context.Context, conferenceID int64) (string, int, error) {
	counts := make(map[string]int)
	for _, s := range f.byID {
		if s.ConferenceID == conferenceID && s.Speaker != "" {
			counts[s.Speaker]++
		}
	}
	top, topCount := "", 0
	for speaker, count := range counts {
		if count > topCount || (count == topCount && speaker < top) {
			top, topCount = speaker, count
		}
	}
	if top == "" {
		return "", 0, domain.ErrNotFound
	}
	return top, topCount, nil
}

func (f *fakeSessionRepo) ListNamesBySpeaker(ctx context.Context, conferenceID int64, speaker string) ([]string, error) {
	var names []string
	for id := int64(1); id < f.nextID; id++ {
		if s, ok := f.byID[id]; ok && s.ConferenceID == conferenceID && s.Speaker == speaker {
			names = append(names, s.Name)
		}
	}
	return names, nil
}

// fakeProfileRepo is an in-memory ProfileRepository for tests.
type fakeProfileRepo struct {
	byID       map[string]*domain.Profile
	attendance map[string][]int64
	wishlists  map[string][]int64
	updates    int
	getErr     error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		byID:       make(map[string]*domain.Profile),
		attendance: make(map[string][]int64),
		wishlists:  make(map[string][]int64),
	}
}

func (f *fakeProfileRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.byID[userID]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	if _, ok := f.byID[p.UserID]; !ok {
		f.byID[p.UserID] = p
	}
	return nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	if _, ok := f.byID[p.UserID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[p.UserID] = p
	f.updates++
	return nil
}

func (f *fakeProfileRepo) GetMulti(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	out := make(map[string]*domain.Profile)
	for _, id := range userIDs {
		if p, ok := f.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProfileRepo) ListAttendingConferenceIDs(ctx context.Context, userID string) ([]int64, error) {
	return append([]int64(nil), f.attendance[userID]...), nil
}

func (f *fakeProfileRepo) ListWishlistSessionIDs(ctx context.Context, userID string) ([]int64, error) {
	return append([]int64(nil), f.wishlists[userID]...), nil
}

// fakeRegistrationRepo mirrors the transactional seat and wishlist
// accounting in memory, mutating the other fakes the way the SQL
// transactions mutate their tables.
type fakeRegistrationRepo struct {
	confs      *fakeConferenceRepo
	sessions   *fakeSessionRepo
	profiles   *fakeProfileRepo
	registered map[string]map[int64]bool
	wishlisted map[string]map[int64]bool
}

func newFakeRegistrationRepo(confs *fakeConferenceRepo, sessions *fakeSessionRepo, profiles *fakeProfileRepo) *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		confs:      confs,
		sessions:   sessions,
		profiles:   profiles,
		registered: make(map[string]map[int64]bool),
		wishlisted: make(map[string]map[int64]bool),
	}
}

func (f *fakeRegistrationRepo) Register(ctx context.Context, userID string, conferenceID int64) error {
	conf, ok := f.confs.byID[conferenceID]
	if !ok {
		return domain.ErrNotFound
	}
	if f.registered[userID][conferenceID] {
		return domain.ErrConflict
	}
	if conf.SeatsAvailable <= 0 {
		return domain.ErrConflict
	}
	if f.registered[userID] == nil {
		f.registered[userID] = make(map[int64]bool)
	}
	f.registered[userID][conferenceID] = true
	conf.SeatsAvailable--
	f.profiles.attendance[userID] = append(f.profiles.attendance[userID], conferenceID)
	return nil
}

func (f *fakeRegistrationRepo) Unregister(ctx context.Context, userID string, conferenceID int64) (bool, error) {
	conf, ok := f.confs.byID[conferenceID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if !f.registered[userID][conferenceID] {
		return false, nil
	}
	delete(f.registered[userID], conferenceID)
	conf.SeatsAvailable++
	ids := f.profiles.attendance[userID][:0]
	for _, id := range f.profiles.attendance[userID] {
		if id != conferenceID {
			ids = append(ids, id)
		}
	}
	f.profiles.attendance[userID] = ids
	return true, nil
}

func (f *fakeRegistrationRepo) AddToWishlist(ctx context.Context, userID string, sessionID int64) error {
	sess, ok := f.sessions.byID[sessionID]
	if !ok {
		return domain.ErrNotFound
	}
	if f.wishlisted[userID][sessionID] {
		return domain.ErrConflict
	}
	if f.wishlisted[userID] == nil {
		f.wishlisted[userID] = make(map[int64]bool)
	}
	f.wishlisted[userID][sessionID] = true
	sess.Wishlisted++
	f.profiles.wishlists[userID] = append(f.profiles.wishlists[userID], sessionID)
	return nil
}

// fakeDispatcher records enqueued tasks.
type fakeDispatcher struct {
	tasks []enqueuedTask
	err   error
}

type enqueuedTask struct {
	taskType string
	payload  any
}

func (f *fakeDispatcher) Enqueue(ctx context.Context, taskType string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.tasks = append(f.tasks, enqueuedTask{taskType: taskType, payload: payload})
	return nil
}

// fakeCache is an in-memory Cache recording TTLs.
type fakeCache struct {
	entries map[string]string
	ttls    map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string]string),
		ttls:    make(map[string]time.Duration),
	}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.entries[key]
	return v, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.entries[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.entries, key)
	delete(f.ttls, key)
	return nil
}
