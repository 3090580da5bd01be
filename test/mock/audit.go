// test/mock/audit.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/doorward-io/doorward/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogRecord(ctx context.Context, rec audit.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockAuditService) QueryRecords(ctx context.Context, from, to time.Time, subjectUserID string) ([]audit.Record, error) {
	args := m.Called(ctx, from, to, subjectUserID)
	return args.Get(0).([]audit.Record), args.Error(1)
}
