// service/permission_service.go
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

// IPermissionService is the special-permission CRUD surface. It belongs to
// the configuration collaborators, not the decision engine — the engine only
// ever reads permissions.
type IPermissionService interface {
	CreatePermission(ctx context.Context, actor model.Principal, perm model.SpecialPermission) (model.SpecialPermission, error)
	UpdatePermission(ctx context.Context, actor model.Principal, perm model.SpecialPermission) (model.SpecialPermission, error)
	DeletePermission(ctx context.Context, actor model.Principal, permissionID string) error
	GetPermission(ctx context.Context, actor model.Principal, permissionID string) (model.SpecialPermission, error)
	ListPermissions(ctx context.Context, actor model.Principal, subjectUserID string) ([]model.SpecialPermission, error)
}

// PermissionService handles business logic for special permission operations.
// Admins manage anyone's permissions; supervisors only those of their
// assigned users.
type PermissionService struct {
	permissionDAO  *dao.PermissionDAO
	validationUtil *util.ValidationUtil
}

// NewPermissionService creates a new instance of PermissionService
func NewPermissionService(permissionDAO *dao.PermissionDAO, validationUtil *util.ValidationUtil) *PermissionService {
	return &PermissionService{
		permissionDAO:  permissionDAO,
		validationUtil: validationUtil,
	}
}

func (s *PermissionService) CreatePermission(ctx context.Context, actor model.Principal, perm model.SpecialPermission) (model.SpecialPermission, error) {
	if err := s.authorizeActor(actor, perm.SubjectUserID); err != nil {
		return model.SpecialPermission{}, err
	}
	if err := s.validationUtil.ValidatePermission(perm); err != nil {
		logger.Warn("Invalid special permission data", zap.Error(err))
		return model.SpecialPermission{}, doorward_errors.ErrInvalidPermissionData
	}
	return s.permissionDAO.CreatePermission(ctx, perm, actor.UserID)
}

func (s *PermissionService) UpdatePermission(ctx context.Context, actor model.Principal, perm model.SpecialPermission) (model.SpecialPermission, error) {
	existing, err := s.permissionDAO.GetPermission(ctx, perm.ID)
	if err != nil {
		return model.SpecialPermission{}, err
	}
	if err := s.authorizeActor(actor, existing.SubjectUserID); err != nil {
		return model.SpecialPermission{}, err
	}
	// The subject is fixed at creation; a permission cannot be reassigned.
	perm.SubjectUserID = existing.SubjectUserID
	if err := s.validationUtil.ValidatePermission(perm); err != nil {
		logger.Warn("Invalid special permission data", zap.Error(err))
		return model.SpecialPermission{}, doorward_errors.ErrInvalidPermissionData
	}
	return s.permissionDAO.UpdatePermission(ctx, perm, actor.UserID)
}

func (s *PermissionService) DeletePermission(ctx context.Context, actor model.Principal, permissionID string) error {
	existing, err := s.permissionDAO.GetPermission(ctx, permissionID)
	if err != nil {
		return err
	}
	if err := s.authorizeActor(actor, existing.SubjectUserID); err != nil {
		return err
	}
	return s.permissionDAO.DeletePermission(ctx, permissionID, actor.UserID)
}

func (s *PermissionService) GetPermission(ctx context.Context, actor model.Principal, permissionID string) (model.SpecialPermission, error) {
	perm, err := s.permissionDAO.GetPermission(ctx, permissionID)
	if err != nil {
		return model.SpecialPermission{}, err
	}
	if err := s.authorizeActor(actor, perm.SubjectUserID); err != nil {
		return model.SpecialPermission{}, err
	}
	return perm, nil
}

func (s *PermissionService) ListPermissions(ctx context.Context, actor model.Principal, subjectUserID string) ([]model.SpecialPermission, error) {
	if err := s.authorizeActor(actor, subjectUserID); err != nil {
		return nil, err
	}
	return s.permissionDAO.PermissionsForSubject(ctx, subjectUserID)
}

func (s *PermissionService) authorizeActor(actor model.Principal, subjectUserID string) error {
	if actor.Role == model.RoleAdmin {
		return nil
	}
	if actor.Role != model.RoleSupervisor {
		return doorward_errors.ErrUnauthorized
	}
	if !actor.Manages(subjectUserID) {
		logger.Warn("Supervisor attempted to manage unassigned user",
			zap.String("actorUserID", actor.UserID),
			zap.String("subjectUserID", subjectUserID))
		return doorward_errors.ErrForbiddenSubject
	}
	return nil
}
