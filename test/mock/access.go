// test/mock/access.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doorward-io/doorward/actuator"
	"github.com/doorward-io/doorward/model"
)

// MockAccessService is a mock implementation of service.IAccessService
type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) Submit(ctx context.Context, principal model.Principal, location *model.LocationSample) (model.AccessEvent, error) {
	args := m.Called(ctx, principal, location)
	return args.Get(0).(model.AccessEvent), args.Error(1)
}

func (m *MockAccessService) Status(ctx context.Context, eventID string) (model.AccessEvent, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(model.AccessEvent), args.Error(1)
}

func (m *MockAccessService) HandleActuatorCallback(ctx context.Context, eventID string, outcome actuator.Outcome) (model.AccessEvent, bool, error) {
	args := m.Called(ctx, eventID, outcome)
	return args.Get(0).(model.AccessEvent), args.Bool(1), args.Error(2)
}

func (m *MockAccessService) Sweep(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockAccessService) StartSweeper(ctx context.Context) {
	m.Called(ctx)
}
