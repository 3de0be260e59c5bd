package services

import (
	"context"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConferenceService_Create(t *testing.T) {
	ctx := context.Background()
	requester := domain.Requester{UserID: "user-1", Email: "owner@example.com", Nickname: "Owner"}

	t.Run("success with defaults", func(t *testing.T) {
		confRepo := newFakeConferenceRepo()
		dispatcher := &fakeDispatcher{}
		svc := NewConferenceService(confRepo, newFakeProfileRepo(), dispatcher, testLogger())

		conf, err := svc.Create(ctx, requester, &domain.CreateConferenceInput{Name: "GopherCon"})
		require.NoError(t, err)
		assert.Equal(t, "user-1", conf.OwnerID)
		assert.Equal(t, domain.DefaultCity, conf.City)
		assert.Equal(t, domain.DefaultTopics, conf.Topics)
		assert.Zero(t, conf.Month)
		assert.Zero(t, conf.SeatsAvailable)

		require.Len(t, dispatcher.tasks, 1)
		assert.Equal(t, domain.TaskTypeConfirmationEmail, dispatcher.tasks[0].taskType)
		payload := dispatcher.tasks[0].payload.(*domain.ConfirmationEmailPayload)
		assert.Equal(t, "owner@example.com", payload.Email)
		assert.Equal(t, "GopherCon", payload.ConferenceName)
	})

	t.Run("derives month and seats", func(t *testing.T) {
		confRepo := newFakeConferenceRepo()
		svc := NewConferenceService(confRepo, newFakeProfileRepo(), &fakeDispatcher{}, testLogger())

		conf, err := svc.Create(ctx, requester, &domain.CreateConferenceInput{
			Name:         "GopherCon",
			City:         "London",
			Topics:       []string{"Go"},
			StartDate:    "2026-06-01",
			EndDate:      "2026-06-03",
			MaxAttendees: 100,
		})
		require.NoError(t, err)
		assert.Equal(t, 6, conf.Month)
		assert.Equal(t, 100, conf.SeatsAvailable)
		require.NotNil(t, conf.StartDate)
		require.NotNil(t, conf.EndDate)
	})

	t.Run("tolerates datetime strings", func(t *testing.T) {
		svc := NewConferenceService(newFakeConferenceRepo(), newFakeProfileRepo(), &fakeDispatcher{}, testLogger())

		conf, err := svc.Create(ctx, requester, &domain.CreateConferenceInput{
			Name:      "GopherCon",
			StartDate: "2026-06-01T09:00:00",
		})
		require.NoError(t, err)
		assert.Equal(t, 6, conf.Month)
	})

	t.Run("name is required", func(t *testing.T) {
		svc := NewConferenceService(newFakeConferenceRepo(), newFakeProfileRepo(), &fakeDispatcher{}, testLogger())

		_, err := svc.Create(ctx, requester, &domain.CreateConferenceInput{})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("bad start date", func(t *testing.T) {
		svc := NewConferenceService(newFakeConferenceRepo(), newFakeProfileRepo(), &fakeDispatcher{}, testLogger())

		_, err := svc.Create(ctx, requester, &domain.CreateConferenceInput{Name: "X", StartDate: "June 1st"})
		require.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := NewConferenceService(newFakeConferenceRepo(), newFakeProfileRepo(), &fakeDispatcher{}, testLogger())

		_, err := svc.Create(ctx, domain.Requester{}, &domain.CreateConferenceInput{Name: "X"})
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("enqueue failure does not fail the create", func(t *testing.T) {
		confRepo := newFakeConferenceRepo()
		svc := NewConferenceService(confRepo, newFakeProfileRepo(), &fakeDispatcher{err: assert.AnError}, testLogger())

		conf, err := svc.Create(ctx, requester, &domain.CreateConferenceInput{Name: "GopherCon"})
		require.NoError(t, err)
		assert.NotZero(t, conf.ID)
	})
}

func TestConferenceService_Update(t *testing.T) {
	ctx := context.Background()
	owner := domain.Requester{UserID: "user-1"}

	seed := func(t *testing.T) (*fakeConferenceRepo, domain.ConferenceService) {
		confRepo := newFakeConferenceRepo()
		svc := NewConferenceService(confRepo, newFakeProfileRepo(), &fakeDispatcher{}, testLogger())
		_, err := svc.Create(ctx, owner, &domain.CreateConferenceInput{Name: "GopherCon", StartDate: "2026-06-01"})
		require.NoError(t, err)
		return confRepo, svc
	}

	t.Run("re-derives month from new start date", func(t *testing.T) {
		_, svc := seed(t)
		newStart := "2026-09-15"
		got, err := svc.Update(ctx, owner, 1, &domain.UpdateConferenceInput{StartDate: &newStart})
		require.NoError(t, err)
		assert.Equal(t, 9, got.Conference.Month)
	})

	t.Run("only the owner may update", func(t *testing.T) {
		_, svc := seed(t)
		name := "Taken Over"
		_, err := svc.Update(ctx, domain.Requester{UserID: "user-2"}, 1, &domain.UpdateConferenceInput{Name: &name})
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, svc := seed(t)
		_, err := svc.Update(ctx, domain.Requester{}, 1, &domain.UpdateConferenceInput{})
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func TestConferenceService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("joins organizer display name", func(t *testing.T) {
		confRepo := newFakeConferenceRepo()
		profileRepo := newFakeProfileRepo()
		profileRepo.byID["user-1"] = &domain.Profile{UserID: "user-1", DisplayName: "Ada"}
		svc := NewConferenceService(confRepo, profileRepo, &fakeDispatcher{}, testLogger())

		_, err := svc.Create(ctx, domain.Requester{UserID: "user-1"}, &domain.CreateConferenceInput{Name: "GopherCon"})
		require.NoError(t, err)

		got, err := svc.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "GopherCon", got.Conference.Name)
		assert.Equal(t, "Ada", got.OrganizerDisplayName)
	})

	t.Run("missing organizer profile yields empty name", func(t *testing.T) {
		confRepo := newFakeConferenceRepo()
		svc := NewConferenceService(confRepo, newFakeProfileRepo(), &fakeDispatcher{}, testLogger())

		_, err := svc.Create(ctx, domain.Requester{UserID: "user-1"}, &domain.CreateConferenceInput{Name: "GopherCon"})
		require.NoError(t, err)

		got, err := svc.Get(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, got.OrganizerDisplayName)
	})

	t.Run("not found", func(t *testing.T) {
		svc := NewConferenceService(newFakeConferenceRepo(), newFakeProfileRepo(), &fakeDispatcher{}, testLogger())
		_, err := svc.Get(ctx, 99)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestConferenceService_ListCreatedBy(t *testing.T) {
	ctx := context.Background()
	confRepo := newFakeConferenceRepo()
	profileRepo := newFakeProfileRepo()
	profileRepo.byID["user-1"] = &domain.Profile{UserID: "user-1", DisplayName: "Ada"}
	svc := NewConferenceService(confRepo, profileRepo, &fakeDispatcher{}, testLogger())

	for _, name := range []string{"First", "Second"} {
		_, err := svc.Create(ctx, domain.Requester{UserID: "user-1"}, &domain.CreateConferenceInput{Name: name})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, domain.Requester{UserID: "user-2"}, &domain.CreateConferenceInput{Name: "Other"})
	require.NoError(t, err)

	got, err := svc.ListCreatedBy(ctx, domain.Requester{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Conference.Name)
	assert.Equal(t, "Ada", got[0].OrganizerDisplayName)

	_, err = svc.ListCreatedBy(ctx, domain.Requester{})
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestConferenceService_Query(t *testing.T) {
	ctx := context.Background()

	t.Run("compiles filters into the repository query", func(t *testing.T) {
		confRepo := newFakeConferenceRepo()
		confRepo.queryResult = []*domain.Conference{
			{ID: 1, OwnerID: "user-1", Name: "GopherCon", City: "London", MaxAttendees: 100},
		}
		profileRepo := newFakeProfileRepo()
		profileRepo.byID["user-1"] = &domain.Profile{UserID: "user-1", DisplayName: "Ada"}
		svc := NewConferenceService(confRepo, profileRepo, &fakeDispatcher{}, testLogger())

		got, err := svc.Query(ctx, []domain.Filter{
			{Field: "MAX_ATTENDEES", Operator: "GT", Value: "10"},
			{Field: "CITY", Operator: "EQ", Value: "London"},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Ada", got[0].OrganizerDisplayName)

		require.NotNil(t, confRepo.lastQuery)
		assert.Equal(t, []string{"max_attendees > $1", "city = $2"}, confRepo.lastQuery.Where)
		assert.Equal(t, []any{10, "London"}, confRepo.lastQuery.Args)
		assert.Equal(t, []string{"max_attendees", "name"}, confRepo.lastQuery.Order)
	})

	t.Run("rejects a second inequality field", func(t *testing.T) {
		svc := NewConferenceService(newFakeConferenceRepo(), newFakeProfileRepo(), &fakeDispatcher{}, testLogger())

		_, err := svc.Query(ctx, []domain.Filter{
			{Field: "MONTH", Operator: "GT", Value: "6"},
			{Field: "MAX_ATTENDEES", Operator: "LT", Value: "100"},
		})
		require.ErrorIs(t, err, domain.ErrInvalidFilter)
	})

	t.Run("no filters returns everything ordered by name", func(t *testing.T) {
		confRepo := newFakeConferenceRepo()
		svc := NewConferenceService(confRepo, newFakeProfileRepo(), &fakeDispatcher{}, testLogger())

		_, err := svc.Query(ctx, nil)
		require.NoError(t, err)
		require.NotNil(t, confRepo.lastQuery)
		assert.Empty(t, confRepo.lastQuery.Where)
		assert.Equal(t, []string{"name"}, confRepo.lastQuery.Order)
	})
}
