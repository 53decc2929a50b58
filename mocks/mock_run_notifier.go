package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docvet/internal/domain"
)

// MockRunNotifier is a mock implementation of port.RunNotifier.
type MockRunNotifier struct {
	mock.Mock
}

func (m *MockRunNotifier) NotifyRunFailed(ctx context.Context, run *domain.RunResult) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}
