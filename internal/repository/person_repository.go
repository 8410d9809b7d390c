package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-checkin/internal/model"
	apperrors "event-checkin/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PersonRepository interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error)
	ListByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]*model.Person, error)
	ListByStatus(ctx context.Context, eventID uuid.UUID, checkedIn bool) ([]*model.Person, error)
	FindByID(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error)
	CheckIn(ctx context.Context, eventID, personID uuid.UUID, at time.Time) (*model.Person, error)
	Toggle(ctx context.Context, eventID, personID uuid.UUID, at time.Time) (*model.Person, error)
	Delete(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error)

	// Transaction methods
	DeleteByEvent(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (int64, error)
	BulkInsert(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, records []model.AttendeeRecord) ([]*model.Person, error)
}

type PersonRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewPersonRepository(pool *pgxpool.Pool) PersonRepository {
	return &PersonRepositoryImpl{
		pool: pool,
	}
}

const personColumns = `id, name, email, checked_in, check_in_time, event_id`

func scanPerson(row pgx.Row) (*model.Person, error) {
	var person model.Person
	err := row.Scan(
		&person.ID,
		&person.Name,
		&person.Email,
		&person.CheckedIn,
		&person.CheckInTime,
		&person.EventID,
	)
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func collectPeople(rows pgx.Rows) ([]*model.Person, error) {
	defer rows.Close()

	people := make([]*model.Person, 0)
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}
	return people, nil
}

func (r *PersonRepositoryImpl) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE event_id = $1
		ORDER BY seq ASC
	`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return collectPeople(rows)
}

func (r *PersonRepositoryImpl) ListByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]*model.Person, error) {
	grouped := make(map[uuid.UUID][]*model.Person, len(eventIDs))
	if len(eventIDs) == 0 {
		return grouped, nil
	}

	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE event_id = ANY($1)
		ORDER BY seq ASC
	`
	rows, err := r.pool.Query(ctx, query, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("list people for events: %w", err)
	}
	people, err := collectPeople(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range people {
		grouped[p.EventID] = append(grouped[p.EventID], p)
	}
	return grouped, nil
}

func (r *PersonRepositoryImpl) ListByStatus(ctx context.Context, eventID uuid.UUID, checkedIn bool) ([]*model.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE event_id = $1 AND checked_in = $2
		ORDER BY seq ASC
	`
	rows, err := r.pool.Query(ctx, query, eventID, checkedIn)
	if err != nil {
		return nil, fmt.Errorf("list people by status: %w", err)
	}
	return collectPeople(rows)
}

func (r *PersonRepositoryImpl) FindByID(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error) {
	query := `
		SELECT ` + personColumns + `
		FROM people
		WHERE id = $1 AND event_id = $2
	`
	person, err := scanPerson(r.pool.QueryRow(ctx, query, personID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonNotFound
		}
		return nil, fmt.Errorf("find person: %w", err)
	}
	return person, nil
}

// CheckIn marks the person present and re-stamps the time even when already checked in.
func (r *PersonRepositoryImpl) CheckIn(ctx context.Context, eventID, personID uuid.UUID, at time.Time) (*model.Person, error) {
	query := `
		UPDATE people
		SET checked_in = TRUE, check_in_time = $1
		WHERE id = $2 AND event_id = $3
		RETURNING ` + personColumns

	person, err := scanPerson(r.pool.QueryRow(ctx, query, at.UTC(), personID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonNotFound
		}
		return nil, fmt.Errorf("check in person: %w", err)
	}
	return person, nil
}

// Toggle flips the flag in one statement; SET expressions see the pre-update row.
func (r *PersonRepositoryImpl) Toggle(ctx context.Context, eventID, personID uuid.UUID, at time.Time) (*model.Person, error) {
	query := `
		UPDATE people
		SET checked_in = NOT checked_in,
		    check_in_time = CASE WHEN checked_in THEN NULL ELSE $1::timestamptz END
		WHERE id = $2 AND event_id = $3
		RETURNING ` + personColumns

	person, err := scanPerson(r.pool.QueryRow(ctx, query, at.UTC(), personID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonNotFound
		}
		return nil, fmt.Errorf("toggle person: %w", err)
	}
	return person, nil
}

func (r *PersonRepositoryImpl) Delete(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error) {
	query := `
		DELETE FROM people
		WHERE id = $1 AND event_id = $2
		RETURNING ` + personColumns

	person, err := scanPerson(r.pool.QueryRow(ctx, query, personID, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonNotFound
		}
		return nil, fmt.Errorf("delete person: %w", err)
	}
	return person, nil
}

func (r *PersonRepositoryImpl) DeleteByEvent(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (int64, error) {
	result, err := tx.Exec(ctx, `DELETE FROM people WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, fmt.Errorf("clear people: %w", err)
	}
	return result.RowsAffected(), nil
}

// BulkInsert copies the records in order; every row gets a fresh id and starts checked out.
func (r *PersonRepositoryImpl) BulkInsert(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, records []model.AttendeeRecord) ([]*model.Person, error) {
	people := make([]*model.Person, 0, len(records))
	if len(records) == 0 {
		return people, nil
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		person := &model.Person{
			ID:      uuid.New(),
			Name:    rec.Name,
			Email:   rec.Email,
			EventID: eventID,
		}
		people = append(people, person)
		rows = append(rows, []any{person.ID, person.EventID, person.Name, person.Email, false})
	}

	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{"people"},
		[]string{"id", "event_id", "name", "email", "checked_in"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.ErrEventNotFound
		}
		if isInvalidValue(err) {
			return nil, apperrors.ErrInvalidInput
		}
		return nil, fmt.Errorf("insert people: %w", err)
	}
	if copied != int64(len(rows)) {
		return nil, fmt.Errorf("insert people: copied %d of %d rows", copied, len(rows))
	}

	return people, nil
}
