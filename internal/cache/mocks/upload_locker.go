package mocks

import (
	"context"

	"event-checkin/internal/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUploadLocker struct {
	mock.Mock
	Released int
}

func NewMockUploadLocker(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUploadLocker {
	m := &MockUploadLocker{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Acquire returns a release func that counts calls into Released.
func (m *MockUploadLocker) Acquire(ctx context.Context, eventID uuid.UUID) (cache.ReleaseFunc, error) {
	args := m.Called(ctx, eventID)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.Released++
		return nil
	}, nil
}
