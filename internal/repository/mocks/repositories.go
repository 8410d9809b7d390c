package mocks

import (
	"context"
	"time"

	"event-checkin/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockEventRepository struct {
	mock.Mock
}

// NewMockEventRepository asserts expectations when the test ends.
func NewMockEventRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventRepository {
	m := &MockEventRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockEventRepository) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

type MockPersonRepository struct {
	mock.Mock
}

func NewMockPersonRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockPersonRepository {
	m := &MockPersonRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPersonRepository) people(args mock.Arguments) ([]*model.Person, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Person), args.Error(1)
}

func (m *MockPersonRepository) person(args mock.Arguments) (*model.Person, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockPersonRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error) {
	return m.people(m.Called(ctx, eventID))
}

func (m *MockPersonRepository) ListByEvents(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID][]*model.Person, error) {
	args := m.Called(ctx, eventIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]*model.Person), args.Error(1)
}

func (m *MockPersonRepository) ListByStatus(ctx context.Context, eventID uuid.UUID, checkedIn bool) ([]*model.Person, error) {
	return m.people(m.Called(ctx, eventID, checkedIn))
}

func (m *MockPersonRepository) FindByID(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error) {
	return m.person(m.Called(ctx, eventID, personID))
}

func (m *MockPersonRepository) CheckIn(ctx context.Context, eventID, personID uuid.UUID, at time.Time) (*model.Person, error) {
	return m.person(m.Called(ctx, eventID, personID, at))
}

func (m *MockPersonRepository) Toggle(ctx context.Context, eventID, personID uuid.UUID, at time.Time) (*model.Person, error) {
	return m.person(m.Called(ctx, eventID, personID, at))
}

func (m *MockPersonRepository) Delete(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error) {
	return m.person(m.Called(ctx, eventID, personID))
}

func (m *MockPersonRepository) DeleteByEvent(ctx context.Context, tx pgx.Tx, eventID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPersonRepository) BulkInsert(ctx context.Context, tx pgx.Tx, eventID uuid.UUID, records []model.AttendeeRecord) ([]*model.Person, error) {
	return m.people(m.Called(ctx, tx, eventID, records))
}

type MockActivityRepository struct {
	mock.Mock
}

func NewMockActivityRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockActivityRepository {
	m := &MockActivityRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockActivityRepository) Create(ctx context.Context, activity *model.CheckinActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, limit int) ([]*model.CheckinActivity, error) {
	args := m.Called(ctx, eventID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CheckinActivity), args.Error(1)
}
