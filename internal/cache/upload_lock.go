package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ReleaseFunc gives the lock back. Releasing an expired or foreign lock is a no-op.
type ReleaseFunc func(ctx context.Context) error

type UploadLocker interface {
	// Acquire takes the per-event upload lock or returns ErrUploadInProgress.
	Acquire(ctx context.Context, eventID uuid.UUID) (ReleaseFunc, error)
}

type RedisUploadLockerImpl struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUploadLocker(client *redis.Client, ttl time.Duration) UploadLocker {
	return &RedisUploadLockerImpl{
		client: client,
		ttl:    ttl,
	}
}

func (l *RedisUploadLockerImpl) getLockKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s:upload-lock", eventID)
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

func (l *RedisUploadLockerImpl) Acquire(ctx context.Context, eventID uuid.UUID) (ReleaseFunc, error) {
	key := l.getLockKey(eventID)
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire upload lock: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrUploadInProgress
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("release upload lock: %w", err)
		}
		return nil
	}, nil
}

// MemoryUploadLockerImpl serves single-process deployments without Redis.
type MemoryUploadLockerImpl struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	locks map[uuid.UUID]memoryLock
}

type memoryLock struct {
	token     uuid.UUID
	expiresAt time.Time
}

func NewMemoryUploadLocker(ttl time.Duration) UploadLocker {
	return &MemoryUploadLockerImpl{
		ttl:   ttl,
		now:   time.Now,
		locks: make(map[uuid.UUID]memoryLock),
	}
}

func (l *MemoryUploadLockerImpl) Acquire(ctx context.Context, eventID uuid.UUID) (ReleaseFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if held, ok := l.locks[eventID]; ok && now.Before(held.expiresAt) {
		return nil, apperrors.ErrUploadInProgress
	}
	token := uuid.New()
	l.locks[eventID] = memoryLock{token: token, expiresAt: now.Add(l.ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if held, ok := l.locks[eventID]; ok && held.token == token {
			delete(l.locks, eventID)
		}
		return nil
	}, nil
}
