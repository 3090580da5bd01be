// service/schedule_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/doorward-io/doorward/dao"
	doorward_errors "github.com/doorward-io/doorward/errors"
	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/util"
)

// IScheduleService exposes the global schedule: readable by supervisors and
// admins, replaceable in full by admins only. There is deliberately no
// partial update.
type IScheduleService interface {
	GetGlobalSchedule(ctx context.Context, actor model.Principal) (model.GlobalSchedule, error)
	ReplaceGlobalSchedule(ctx context.Context, actor model.Principal, schedule model.GlobalSchedule) error
}

// ScheduleService handles business logic for global schedule operations
type ScheduleService struct {
	scheduleDAO    *dao.ScheduleDAO
	validationUtil *util.ValidationUtil
}

// NewScheduleService creates a new instance of ScheduleService
func NewScheduleService(scheduleDAO *dao.ScheduleDAO, validationUtil *util.ValidationUtil) *ScheduleService {
	return &ScheduleService{
		scheduleDAO:    scheduleDAO,
		validationUtil: validationUtil,
	}
}

func (s *ScheduleService) GetGlobalSchedule(ctx context.Context, actor model.Principal) (model.GlobalSchedule, error) {
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleSupervisor {
		return model.GlobalSchedule{}, doorward_errors.ErrUnauthorized
	}
	return s.scheduleDAO.GetGlobalSchedule(ctx)
}

func (s *ScheduleService) ReplaceGlobalSchedule(ctx context.Context, actor model.Principal, schedule model.GlobalSchedule) error {
	if actor.Role != model.RoleAdmin {
		return doorward_errors.ErrUnauthorized
	}
	if err := s.validationUtil.ValidateGlobalSchedule(schedule); err != nil {
		logger.Warn("Invalid global schedule", zap.Error(err))
		return doorward_errors.ErrInvalidScheduleData
	}
	return s.scheduleDAO.ReplaceGlobalSchedule(ctx, schedule, actor.UserID)
}
