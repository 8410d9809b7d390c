package service

import (
	"context"
	"time"

	"event-checkin/internal/metrics"
	"event-checkin/internal/model"
	"event-checkin/internal/queue"
	"event-checkin/internal/repository"
	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 500

	publishTimeout = 2 * time.Second
)

type ActivityService interface {
	// Publish queues an entry for the feed. Failures are logged, never returned.
	Publish(ctx context.Context, activity *model.CheckinActivity)
	// Record persists a delivered entry; called by the activity worker.
	Record(ctx context.Context, activity *model.CheckinActivity) error
	List(ctx context.Context, eventID uuid.UUID, limit int) ([]*model.CheckinActivity, error)
}

type ActivityServiceImpl struct {
	repo      repository.ActivityRepository
	eventRepo repository.EventRepository
	queue     queue.ActivityQueue
}

func NewActivityService(repo repository.ActivityRepository, eventRepo repository.EventRepository, q queue.ActivityQueue) ActivityService {
	return &ActivityServiceImpl{
		repo:      repo,
		eventRepo: eventRepo,
		queue:     q,
	}
}

func (s *ActivityServiceImpl) Publish(ctx context.Context, activity *model.CheckinActivity) {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	// outlives request cancellation
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.queue.Publish(ctx, activity); err != nil {
		metrics.RecordOperation(metrics.ActionActivityDropped)
		logger.WithComponent("service").Warn("failed to publish activity",
			zap.String("event_id", activity.EventID.String()),
			zap.String("action", string(activity.Action)),
			zap.Error(err))
	}
}

func (s *ActivityServiceImpl) Record(ctx context.Context, activity *model.CheckinActivity) error {
	if !activity.Action.IsValid() {
		return apperrors.ErrInvalidInput
	}
	return s.repo.Create(ctx, activity)
}

func (s *ActivityServiceImpl) List(ctx context.Context, eventID uuid.UUID, limit int) ([]*model.CheckinActivity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}

	exists, err := s.eventRepo.Exists(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrEventNotFound
	}
	return s.repo.ListByEvent(ctx, eventID, limit)
}
