// test/mock/sources.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doorward-io/doorward/model"
)

// MockPermissionSource is a mock implementation of service.PermissionSource
type MockPermissionSource struct {
	mock.Mock
}

func (m *MockPermissionSource) ActiveForUser(ctx context.Context, subjectUserID string) ([]model.SpecialPermission, error) {
	args := m.Called(ctx, subjectUserID)
	return args.Get(0).([]model.SpecialPermission), args.Error(1)
}

// MockScheduleSource is a mock implementation of service.ScheduleSource
type MockScheduleSource struct {
	mock.Mock
}

func (m *MockScheduleSource) GetGlobalSchedule(ctx context.Context) (model.GlobalSchedule, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.GlobalSchedule), args.Error(1)
}
