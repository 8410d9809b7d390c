package worker

import (
	"context"
	"errors"
	"fmt"

	"event-checkin/internal/queue"
	"event-checkin/internal/service"
	apperrors "event-checkin/pkg/app_errors"
	"event-checkin/pkg/logger"

	"go.uber.org/zap"
)

type ActivityWorker interface {
	// Start subscribes to the queue and persists entries until ctx is cancelled.
	Start(ctx context.Context) error
	// Done is closed once the delivery channel has drained after cancellation.
	Done() <-chan struct{}
}

type ActivityWorkerImpl struct {
	service service.ActivityService
	queue   queue.ActivityQueue
	done    chan struct{}
}

func NewActivityWorker(service service.ActivityService, queue queue.ActivityQueue) ActivityWorker {
	return &ActivityWorkerImpl{
		service: service,
		queue:   queue,
		done:    make(chan struct{}),
	}
}

func (w *ActivityWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		close(w.done)
		return fmt.Errorf("subscribe activity queue: %w", err)
	}

	go func() {
		defer close(w.done)
		for msg := range msgs {
			w.handle(ctx, msg)
		}
	}()
	return nil
}

func (w *ActivityWorkerImpl) Done() <-chan struct{} {
	return w.done
}

func (w *ActivityWorkerImpl) handle(ctx context.Context, msg queue.Delivery) {
	log := logger.WithComponent("worker")

	err := w.service.Record(ctx, msg.Data)
	switch {
	case err == nil:
		msg.Ack()
	case errors.Is(err, apperrors.ErrEventNotFound), errors.Is(err, apperrors.ErrInvalidInput):
		// retrying cannot help: the event is gone or the entry is malformed
		log.Warn("discarding activity",
			zap.String("activity_id", msg.Data.ID.String()),
			zap.String("event_id", msg.Data.EventID.String()),
			zap.Error(err))
		msg.Nack(false)
	default:
		log.Error("failed to record activity, will retry",
			zap.String("activity_id", msg.Data.ID.String()),
			zap.Error(err))
		msg.Nack(true)
	}
}
