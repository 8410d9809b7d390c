package mocks

import (
	"context"

	"event-checkin/internal/model"
	"event-checkin/internal/queue"

	"github.com/stretchr/testify/mock"
)

type MockActivityQueue struct {
	mock.Mock
}

func NewMockActivityQueue(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockActivityQueue {
	m := &MockActivityQueue{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockActivityQueue) Publish(ctx context.Context, activity *model.CheckinActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityQueue) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}
