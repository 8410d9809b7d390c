package repository_test

import (
	"context"
	"testing"
	"time"

	"event-checkin/internal/model"
	"event-checkin/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// createTestEvent inserts an event through the repository and returns it.
func createTestEvent(t *testing.T, pool *pgxpool.Pool, name string) *model.Event {
	t.Helper()
	repo := repository.NewEventRepository(pool)
	event, err := repo.Create(context.Background(), &model.Event{
		ID:          uuid.New(),
		Name:        name,
		Date:        time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
		Description: "test event",
	})
	require.NoError(t, err)
	return event
}

// seedPeople replaces the roster of an event inside a committed transaction.
func seedPeople(t *testing.T, pool *pgxpool.Pool, eventID uuid.UUID, records ...model.AttendeeRecord) []*model.Person {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewPersonRepository(pool)

	var people []*model.Person
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		var err error
		people, err = repo.BulkInsert(ctx, tx, eventID, records)
		return err
	})
	require.NoError(t, err)
	return people
}
