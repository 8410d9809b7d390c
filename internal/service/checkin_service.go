package service

import (
	"context"
	"time"

	"event-checkin/internal/clock"
	"event-checkin/internal/metrics"
	"event-checkin/internal/model"
	"event-checkin/internal/repository"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
)

type CheckinService interface {
	// CheckIn marks the person present, re-stamping the time if already checked in.
	CheckIn(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error)
	// Toggle flips the flag; a flip to checked in always gets a fresh timestamp.
	Toggle(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error)
	Status(ctx context.Context, eventID uuid.UUID) (*model.CheckInStatus, error)
}

type CheckinServiceImpl struct {
	eventRepo  repository.EventRepository
	personRepo repository.PersonRepository
	activity   ActivityService
	clock      clock.Clock
}

func NewCheckinService(
	eventRepo repository.EventRepository,
	personRepo repository.PersonRepository,
	activity ActivityService,
	clk clock.Clock,
) CheckinService {
	return &CheckinServiceImpl{
		eventRepo:  eventRepo,
		personRepo: personRepo,
		activity:   activity,
		clock:      clk,
	}
}

func (s *CheckinServiceImpl) CheckIn(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error) {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	person, err := s.personRepo.CheckIn(ctx, eventID, personID, now)
	if err != nil {
		return nil, err
	}

	metrics.RecordOperation(metrics.ActionCheckedIn)
	s.publish(ctx, person, model.ActivityCheckedIn, now)
	return person, nil
}

func (s *CheckinServiceImpl) Toggle(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error) {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	person, err := s.personRepo.Toggle(ctx, eventID, personID, now)
	if err != nil {
		return nil, err
	}

	metrics.RecordOperation(metrics.ActionToggled)
	action := model.ActivityCheckedOut
	if person.CheckedIn {
		action = model.ActivityCheckedIn
	}
	s.publish(ctx, person, action, now)
	return person, nil
}

func (s *CheckinServiceImpl) Status(ctx context.Context, eventID uuid.UUID) (*model.CheckInStatus, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	people, err := s.personRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return model.NewCheckInStatus(event, people), nil
}

func (s *CheckinServiceImpl) publish(ctx context.Context, person *model.Person, action model.ActivityAction, at time.Time) {
	personID := person.ID
	s.activity.Publish(ctx, &model.CheckinActivity{
		EventID:    person.EventID,
		PersonID:   &personID,
		PersonName: person.Name,
		Action:     action,
		OccurredAt: at,
	})
}

func (s *CheckinServiceImpl) ensureEvent(ctx context.Context, eventID uuid.UUID) error {
	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrEventNotFound
	}
	return nil
}
