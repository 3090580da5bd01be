// test/mock/actuator.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doorward-io/doorward/actuator"
)

// MockActuatorClient is a mock implementation of actuator.Client
type MockActuatorClient struct {
	mock.Mock
}

func (m *MockActuatorClient) Dispatch(ctx context.Context, cmd actuator.Command) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}
