package service

import (
	"context"
	"io"

	"event-checkin/internal/cache"
	"event-checkin/internal/clock"
	"event-checkin/internal/csvimport"
	"event-checkin/internal/database"
	"event-checkin/internal/metrics"
	"event-checkin/internal/model"
	"event-checkin/internal/repository"
	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	Get(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	// EnsureExists returns ErrEventNotFound for an unknown event without loading its roster.
	EnsureExists(ctx context.Context, eventID uuid.UUID) error
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	Delete(ctx context.Context, eventID uuid.UUID) error
	// ReplaceAttendees parses the CSV and swaps the whole roster in one transaction.
	ReplaceAttendees(ctx context.Context, eventID uuid.UUID, csv io.Reader) (int, error)
	ListCheckedIn(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error)
	ListNotCheckedIn(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error)
	RemovePerson(ctx context.Context, eventID, personID uuid.UUID) error
}

type EventServiceImpl struct {
	db         database.TxBeginner
	repo       repository.EventRepository
	personRepo repository.PersonRepository
	locker     cache.UploadLocker
	activity   ActivityService
	clock      clock.Clock
}

func NewEventService(
	db database.TxBeginner,
	repo repository.EventRepository,
	personRepo repository.PersonRepository,
	locker cache.UploadLocker,
	activity ActivityService,
	clk clock.Clock,
) EventService {
	return &EventServiceImpl{
		db:         db,
		repo:       repo,
		personRepo: personRepo,
		locker:     locker,
		activity:   activity,
		clock:      clk,
	}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	people, err := s.personRepo.ListByEvents(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if p, ok := people[e.ID]; ok {
			e.People = p
		}
	}
	return events, nil
}

func (s *EventServiceImpl) Get(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	people, err := s.personRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	event.People = people
	return event, nil
}

// Create always assigns a fresh id; attendees only arrive through a CSV upload.
func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	event.ID = uuid.New()
	event.People = nil

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	metrics.RecordOperation(metrics.ActionEventCreated)
	return created, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, eventID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := s.personRepo.DeleteByEvent(ctx, tx, eventID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tx, eventID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	metrics.RecordOperation(metrics.ActionEventDeleted)
	return nil
}

func (s *EventServiceImpl) ReplaceAttendees(ctx context.Context, eventID uuid.UUID, csv io.Reader) (int, error) {
	release, err := s.locker.Acquire(ctx, eventID)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			logger.WithComponent("lock").Warn("failed to release upload lock",
				zap.String("event_id", eventID.String()), zap.Error(err))
		}
	}()

	records, err := csvimport.Parse(csv)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	if err := s.repo.LockForUpdate(ctx, tx, eventID); err != nil {
		return 0, err
	}
	if _, err := s.personRepo.DeleteByEvent(ctx, tx, eventID); err != nil {
		return 0, err
	}
	people, err := s.personRepo.BulkInsert(ctx, tx, eventID, records)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	metrics.RecordOperation(metrics.ActionRosterReplaced)
	metrics.RecordRowsImported(len(people))
	s.activity.Publish(ctx, &model.CheckinActivity{
		EventID:    eventID,
		Action:     model.ActivityRosterReplaced,
		Count:      len(people),
		OccurredAt: s.clock.Now(),
	})

	return len(people), nil
}

func (s *EventServiceImpl) ListCheckedIn(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error) {
	return s.listByStatus(ctx, eventID, true)
}

func (s *EventServiceImpl) ListNotCheckedIn(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error) {
	return s.listByStatus(ctx, eventID, false)
}

func (s *EventServiceImpl) listByStatus(ctx context.Context, eventID uuid.UUID, checkedIn bool) ([]*model.Person, error) {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.personRepo.ListByStatus(ctx, eventID, checkedIn)
}

func (s *EventServiceImpl) RemovePerson(ctx context.Context, eventID, personID uuid.UUID) error {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return err
	}
	person, err := s.personRepo.Delete(ctx, eventID, personID)
	if err != nil {
		return err
	}

	metrics.RecordOperation(metrics.ActionPersonRemoved)
	s.activity.Publish(ctx, &model.CheckinActivity{
		EventID:    eventID,
		PersonID:   &person.ID,
		PersonName: person.Name,
		Action:     model.ActivityPersonRemoved,
		OccurredAt: s.clock.Now(),
	})
	return nil
}

func (s *EventServiceImpl) EnsureExists(ctx context.Context, eventID uuid.UUID) error {
	return s.ensureEvent(ctx, eventID)
}

func (s *EventServiceImpl) ensureEvent(ctx context.Context, eventID uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrEventNotFound
	}
	return nil
}
