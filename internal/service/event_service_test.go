package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	cacheMocks "event-checkin/internal/cache/mocks"
	"event-checkin/internal/clock"
	dbMocks "event-checkin/internal/database/mocks"
	"event-checkin/internal/model"
	repoMocks "event-checkin/internal/repository/mocks"
	"event-checkin/internal/service"
	serviceMocks "event-checkin/internal/service/mocks"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)

type eventServiceDeps struct {
	db         *dbMocks.FakeTxBeginner
	eventRepo  *repoMocks.MockEventRepository
	personRepo *repoMocks.MockPersonRepository
	locker     *cacheMocks.MockUploadLocker
	activity   *serviceMocks.MockActivityService
}

func setupEventService(t *testing.T) (service.EventService, *eventServiceDeps) {
	deps := &eventServiceDeps{
		db:         dbMocks.NewFakeTxBeginner(),
		eventRepo:  repoMocks.NewMockEventRepository(t),
		personRepo: repoMocks.NewMockPersonRepository(t),
		locker:     cacheMocks.NewMockUploadLocker(t),
		activity:   serviceMocks.NewMockActivityService(t),
	}
	svc := service.NewEventService(deps.db, deps.eventRepo, deps.personRepo, deps.locker, deps.activity, clock.NewFixed(fixedNow))
	return svc, deps
}

func TestEventService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - attaches people per event", func(t *testing.T) {
		svc, deps := setupEventService(t)
		a := &model.Event{ID: uuid.New(), Name: "A", People: []*model.Person{}}
		b := &model.Event{ID: uuid.New(), Name: "B", People: []*model.Person{}}
		alice := &model.Person{ID: uuid.New(), Name: "Alice", EventID: a.ID}

		deps.eventRepo.On("List", ctx).Return([]*model.Event{a, b}, nil).Once()
		deps.personRepo.On("ListByEvents", ctx, []uuid.UUID{a.ID, b.ID}).
			Return(map[uuid.UUID][]*model.Person{a.ID: {alice}}, nil).Once()

		events, err := svc.List(ctx)

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, []*model.Person{alice}, events[0].People)
		assert.NotNil(t, events[1].People)
		assert.Empty(t, events[1].People)
	})

	t.Run("Failed - repository error", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.eventRepo.On("List", ctx).Return(nil, errors.New("db error")).Once()

		_, err := svc.List(ctx)

		assert.EqualError(t, err, "db error")
	})
}

func TestEventService_Get(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, deps := setupEventService(t)
		people := []*model.Person{{ID: uuid.New(), Name: "Alice", EventID: eventID}}
		deps.eventRepo.On("FindByID", ctx, eventID).Return(&model.Event{ID: eventID, Name: "E"}, nil).Once()
		deps.personRepo.On("ListByEvent", ctx, eventID).Return(people, nil).Once()

		event, err := svc.Get(ctx, eventID)

		require.NoError(t, err)
		assert.Equal(t, people, event.People)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.eventRepo.On("FindByID", ctx, eventID).Return(nil, apperrors.ErrEventNotFound).Once()

		_, err := svc.Get(ctx, eventID)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		deps.personRepo.AssertNotCalled(t, "ListByEvent", mock.Anything, mock.Anything)
	})
}

func TestEventService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - ignores client id", func(t *testing.T) {
		svc, deps := setupEventService(t)
		clientID := uuid.New()
		input := &model.Event{ID: clientID, Name: "Launch", People: []*model.Person{{Name: "Sneaky"}}}

		deps.eventRepo.On("Create", ctx, mock.MatchedBy(func(e *model.Event) bool {
			return e.ID != uuid.Nil && e.ID != clientID && e.People == nil
		})).Return(input, nil).Once()

		created, err := svc.Create(ctx, input)

		require.NoError(t, err)
		assert.NotEqual(t, clientID, created.ID)
		assert.Equal(t, "Launch", created.Name)
	})
}

func TestEventService_Delete(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	t.Run("Success - clears people then event", func(t *testing.T) {
		svc, deps := setupEventService(t)
		tx := deps.db.Tx
		deps.personRepo.On("DeleteByEvent", ctx, tx, eventID).Return(int64(3), nil).Once()
		deps.eventRepo.On("Delete", ctx, tx, eventID).Return(nil).Once()

		err := svc.Delete(ctx, eventID)

		require.NoError(t, err)
		assert.True(t, tx.Committed)
	})

	t.Run("Failed - ErrEventNotFound rolls back", func(t *testing.T) {
		svc, deps := setupEventService(t)
		tx := deps.db.Tx
		deps.personRepo.On("DeleteByEvent", ctx, tx, eventID).Return(int64(0), nil).Once()
		deps.eventRepo.On("Delete", ctx, tx, eventID).Return(apperrors.ErrEventNotFound).Once()

		err := svc.Delete(ctx, eventID)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		assert.False(t, tx.Committed)
		assert.True(t, tx.RolledBack)
	})

	t.Run("Failed - begin error", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.db.Err = errors.New("pool exhausted")

		err := svc.Delete(ctx, eventID)

		assert.EqualError(t, err, "pool exhausted")
	})
}

func TestEventService_ReplaceAttendees(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()
	csv := "Name,Email\nAlice, alice@x.com\nBob,bob@x.com\n"
	records := []model.AttendeeRecord{
		{Name: "Alice", Email: "alice@x.com"},
		{Name: "Bob", Email: "bob@x.com"},
	}

	t.Run("Success - replaces roster in one transaction", func(t *testing.T) {
		svc, deps := setupEventService(t)
		tx := deps.db.Tx
		inserted := []*model.Person{
			{ID: uuid.New(), Name: "Alice", EventID: eventID},
			{ID: uuid.New(), Name: "Bob", EventID: eventID},
		}

		deps.locker.On("Acquire", ctx, eventID).Return(nil).Once()
		deps.eventRepo.On("LockForUpdate", ctx, tx, eventID).Return(nil).Once()
		deps.personRepo.On("DeleteByEvent", ctx, tx, eventID).Return(int64(5), nil).Once()
		deps.personRepo.On("BulkInsert", ctx, tx, eventID, records).Return(inserted, nil).Once()
		deps.activity.On("Publish", ctx, mock.MatchedBy(func(a *model.CheckinActivity) bool {
			return a.Action == model.ActivityRosterReplaced && a.Count == 2 && a.EventID == eventID && a.OccurredAt.Equal(fixedNow)
		})).Once()

		count, err := svc.ReplaceAttendees(ctx, eventID, strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.True(t, tx.Committed)
		assert.Equal(t, 1, deps.locker.Released)
	})

	t.Run("Failed - ErrUploadInProgress", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.locker.On("Acquire", ctx, eventID).Return(apperrors.ErrUploadInProgress).Once()

		_, err := svc.ReplaceAttendees(ctx, eventID, strings.NewReader(csv))

		assert.ErrorIs(t, err, apperrors.ErrUploadInProgress)
		assert.Equal(t, 0, deps.db.Calls)
	})

	t.Run("Failed - ErrCSVParse keeps roster", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.locker.On("Acquire", ctx, eventID).Return(nil).Once()
		long := "Alice," + strings.Repeat("x", 2<<20) + "\n"

		_, err := svc.ReplaceAttendees(ctx, eventID, strings.NewReader(long))

		assert.ErrorIs(t, err, apperrors.ErrCSVParse)
		assert.Equal(t, 0, deps.db.Calls)
		assert.Equal(t, 1, deps.locker.Released)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		svc, deps := setupEventService(t)
		tx := deps.db.Tx
		deps.locker.On("Acquire", ctx, eventID).Return(nil).Once()
		deps.eventRepo.On("LockForUpdate", ctx, tx, eventID).Return(apperrors.ErrEventNotFound).Once()

		_, err := svc.ReplaceAttendees(ctx, eventID, strings.NewReader(csv))

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		assert.True(t, tx.RolledBack)
	})

	t.Run("Failed - insert error rolls back the clear", func(t *testing.T) {
		svc, deps := setupEventService(t)
		tx := deps.db.Tx
		deps.locker.On("Acquire", ctx, eventID).Return(nil).Once()
		deps.eventRepo.On("LockForUpdate", ctx, tx, eventID).Return(nil).Once()
		deps.personRepo.On("DeleteByEvent", ctx, tx, eventID).Return(int64(5), nil).Once()
		deps.personRepo.On("BulkInsert", ctx, tx, eventID, records).Return(nil, apperrors.ErrInvalidInput).Once()

		_, err := svc.ReplaceAttendees(ctx, eventID, strings.NewReader(csv))

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.False(t, tx.Committed)
		assert.True(t, tx.RolledBack)
		deps.activity.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestEventService_ListByStatus(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	t.Run("Success - checked in", func(t *testing.T) {
		svc, deps := setupEventService(t)
		people := []*model.Person{{ID: uuid.New(), Name: "Bob", CheckedIn: true}}
		deps.eventRepo.On("Exists", ctx, eventID).Return(true, nil).Once()
		deps.personRepo.On("ListByStatus", ctx, eventID, true).Return(people, nil).Once()

		got, err := svc.ListCheckedIn(ctx, eventID)

		require.NoError(t, err)
		assert.Equal(t, people, got)
	})

	t.Run("Success - not checked in", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.eventRepo.On("Exists", ctx, eventID).Return(true, nil).Once()
		deps.personRepo.On("ListByStatus", ctx, eventID, false).Return([]*model.Person{}, nil).Once()

		got, err := svc.ListNotCheckedIn(ctx, eventID)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.eventRepo.On("Exists", ctx, eventID).Return(false, nil).Once()

		_, err := svc.ListCheckedIn(ctx, eventID)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})
}

func TestEventService_RemovePerson(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()
	personID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.eventRepo.On("Exists", ctx, eventID).Return(true, nil).Once()
		deps.personRepo.On("Delete", ctx, eventID, personID).
			Return(&model.Person{ID: personID, Name: "Alice", EventID: eventID}, nil).Once()
		deps.activity.On("Publish", ctx, mock.MatchedBy(func(a *model.CheckinActivity) bool {
			return a.Action == model.ActivityPersonRemoved && a.PersonName == "Alice" && *a.PersonID == personID
		})).Once()

		require.NoError(t, svc.RemovePerson(ctx, eventID, personID))
	})

	t.Run("Failed - ErrEventNotFound", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.eventRepo.On("Exists", ctx, eventID).Return(false, nil).Once()

		err := svc.RemovePerson(ctx, eventID, personID)

		assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	})

	t.Run("Failed - ErrPersonNotFound", func(t *testing.T) {
		svc, deps := setupEventService(t)
		deps.eventRepo.On("Exists", ctx, eventID).Return(true, nil).Once()
		deps.personRepo.On("Delete", ctx, eventID, personID).Return(nil, apperrors.ErrPersonNotFound).Once()

		err := svc.RemovePerson(ctx, eventID, personID)

		assert.ErrorIs(t, err, apperrors.ErrPersonNotFound)
	})
}
