// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	LogRecord(ctx context.Context, rec Record) error
	QueryRecords(ctx context.Context, from, to time.Time, subjectUserID string) ([]Record, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogRecord(ctx context.Context, rec Record) error {
	return s.repo.LogRecord(ctx, rec)
}

func (s *service) QueryRecords(ctx context.Context, from, to time.Time, subjectUserID string) ([]Record, error) {
	return s.repo.QueryRecords(ctx, from, to, subjectUserID)
}
