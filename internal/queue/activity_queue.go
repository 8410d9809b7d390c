package queue

import (
	"context"

	"event-checkin/internal/model"
	"event-checkin/pkg/logger"

	"go.uber.org/zap"
)

type Delivery struct {
	Data *model.CheckinActivity
	Ack  func()
	Nack func(requeue bool)
}

type ActivityQueue interface {
	// Publish hands one activity entry to the queue.
	Publish(ctx context.Context, activity *model.CheckinActivity) error
	// Subscribe streams deliveries until ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryActivityQueue is a buffered channel queue for single-process deployments without Redis.
// An entry is delivered at most maxRetry times; a Nack after the last delivery discards it.
type MemoryActivityQueue struct {
	ch       chan *memoryEntry
	maxRetry int
}

type memoryEntry struct {
	activity   *model.CheckinActivity
	deliveries int
}

func NewMemoryActivityQueue(bufferSize, maxRetry int) ActivityQueue {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if maxRetry <= 0 {
		maxRetry = 1
	}
	return &MemoryActivityQueue{
		ch:       make(chan *memoryEntry, bufferSize),
		maxRetry: maxRetry,
	}
}

func (q *MemoryActivityQueue) Publish(ctx context.Context, activity *model.CheckinActivity) error {
	select {
	case q.ch <- &memoryEntry{activity: activity}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryActivityQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case entry := <-q.ch:
				entry.deliveries++
				d := Delivery{
					Data: entry.activity,
					Ack:  func() {},
					Nack: func(requeue bool) { q.requeue(entry, requeue) },
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (q *MemoryActivityQueue) requeue(entry *memoryEntry, requeue bool) {
	if !requeue {
		return
	}
	log := logger.WithComponent("mq")
	if entry.deliveries >= q.maxRetry {
		log.Warn("discard poison activity",
			zap.String("activity_id", entry.activity.ID.String()),
			zap.Int("deliveries", entry.deliveries),
			zap.Int("max_retries", q.maxRetry))
		return
	}
	select {
	case q.ch <- entry:
	default:
		log.Warn("queue full, dropping requeued activity",
			zap.String("activity_id", entry.activity.ID.String()))
	}
}
