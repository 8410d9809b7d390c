package mocks

import (
	"context"
	"io"

	"event-checkin/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockEventService struct {
	mock.Mock
}

func NewMockEventService(t testingT) *MockEventService {
	m := &MockEventService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockEventService) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *MockEventService) Get(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) EnsureExists(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *MockEventService) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, eventID uuid.UUID) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

// ReplaceAttendees passes the CSV body as a string so tests can match on content.
func (m *MockEventService) ReplaceAttendees(ctx context.Context, eventID uuid.UUID, csv io.Reader) (int, error) {
	body, err := io.ReadAll(csv)
	if err != nil {
		return 0, err
	}
	args := m.Called(ctx, eventID, string(body))
	return args.Int(0), args.Error(1)
}

func (m *MockEventService) ListCheckedIn(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Person), args.Error(1)
}

func (m *MockEventService) ListNotCheckedIn(ctx context.Context, eventID uuid.UUID) ([]*model.Person, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Person), args.Error(1)
}

func (m *MockEventService) RemovePerson(ctx context.Context, eventID, personID uuid.UUID) error {
	args := m.Called(ctx, eventID, personID)
	return args.Error(0)
}

type MockCheckinService struct {
	mock.Mock
}

func NewMockCheckinService(t testingT) *MockCheckinService {
	m := &MockCheckinService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCheckinService) CheckIn(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error) {
	args := m.Called(ctx, eventID, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockCheckinService) Toggle(ctx context.Context, eventID, personID uuid.UUID) (*model.Person, error) {
	args := m.Called(ctx, eventID, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

func (m *MockCheckinService) Status(ctx context.Context, eventID uuid.UUID) (*model.CheckInStatus, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckInStatus), args.Error(1)
}

type MockActivityService struct {
	mock.Mock
}

func NewMockActivityService(t testingT) *MockActivityService {
	m := &MockActivityService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockActivityService) Publish(ctx context.Context, activity *model.CheckinActivity) {
	m.Called(ctx, activity)
}

func (m *MockActivityService) Record(ctx context.Context, activity *model.CheckinActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityService) List(ctx context.Context, eventID uuid.UUID, limit int) ([]*model.CheckinActivity, error) {
	args := m.Called(ctx, eventID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.CheckinActivity), args.Error(1)
}
