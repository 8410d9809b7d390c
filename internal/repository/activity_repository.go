package repository

import (
	"context"
	"fmt"

	"event-checkin/internal/model"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.CheckinActivity) error
	ListByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]*model.CheckinActivity, error)
}

type ActivityRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &ActivityRepositoryImpl{
		pool: pool,
	}
}

// Create is idempotent on the activity id so redelivered messages are harmless.
func (r *ActivityRepositoryImpl) Create(ctx context.Context, activity *model.CheckinActivity) error {
	query := `
		INSERT INTO checkin_activity (id, event_id, person_id, person_name, action, count, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		activity.ID,
		activity.EventID,
		activity.PersonID,
		activity.PersonName,
		activity.Action,
		activity.Count,
		activity.OccurredAt.UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrEventNotFound
		}
		if isInvalidValue(err) {
			return apperrors.ErrInvalidInput
		}
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

func (r *ActivityRepositoryImpl) ListByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]*model.CheckinActivity, error) {
	query := `
		SELECT id, event_id, person_id, person_name, action, count, occurred_at
		FROM checkin_activity
		WHERE event_id = $1
		ORDER BY occurred_at DESC, id
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, eventID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	activities := make([]*model.CheckinActivity, 0)
	for rows.Next() {
		var a model.CheckinActivity
		err := rows.Scan(
			&a.ID,
			&a.EventID,
			&a.PersonID,
			&a.PersonName,
			&a.Action,
			&a.Count,
			&a.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return activities, nil
}
