// dao/permission_dao.go
package dao

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"go.uber.org/zap"

	"github.com/doorward-io/doorward/audit"
	doorward_errors "github.com/doorward-io/doorward/errors"
	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
)

// PermissionDAO persists special permissions in Neo4j. Permissions are never
// auto-deleted when their date range passes — expiry is evaluated at request
// time by the schedule resolver, and Active is a soft switch.
type PermissionDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewPermissionDAO(driver neo4j.Driver, auditService audit.Service) *PermissionDAO {
	dao := &PermissionDAO{Driver: driver, AuditService: auditService}
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

// EnsureUniqueConstraint ensures the unique constraint on the permission ID
func (dao *PermissionDAO) EnsureUniqueConstraint(ctx context.Context) error {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("Failed to close Neo4j session", zap.Error(err))
		}
	}()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_special_permission_id IF NOT EXISTS
        FOR (sp:SPECIAL_PERMISSION) REQUIRE sp.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		if err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraint on permission ID", zap.Error(err))
		return err
	}
	return nil
}

// CreatePermission creates a new special permission node in Neo4j
func (dao *PermissionDAO) CreatePermission(ctx context.Context, perm model.SpecialPermission, actorUserID string) (model.SpecialPermission, error) {
	start := time.Now()
	logger.Info("Creating special permission", zap.String("subjectUserID", perm.SubjectUserID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if perm.ID == "" {
		perm.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	perm.CreatedAt = now
	perm.UpdatedAt = now

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		checkQuery := `
        MATCH (sp:SPECIAL_PERMISSION {id: $id})
        RETURN sp.id
        `
		checkResult, err := transaction.Run(checkQuery, map[string]interface{}{"id": perm.ID})
		if err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}
		if checkResult.Next() {
			return nil, doorward_errors.ErrInvalidPermissionData
		}

		createQuery := `
        CREATE (sp:SPECIAL_PERMISSION {id: $id})
        SET sp += $props
        RETURN sp.id as id
        `
		createResult, err := transaction.Run(createQuery, map[string]interface{}{
			"id":    perm.ID,
			"props": permissionProps(perm),
		})
		if err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}
		if createResult.Next() {
			return nil, nil
		}
		return nil, doorward_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to create special permission",
			zap.Error(err),
			zap.String("subjectUserID", perm.SubjectUserID),
			zap.Duration("duration", duration))
		return model.SpecialPermission{}, err
	}

	logger.Info("Special permission created successfully",
		zap.String("permissionID", perm.ID),
		zap.Duration("duration", duration))

	dao.auditChange(ctx, audit.ActionPermissionCreated, actorUserID, perm)
	return perm, nil
}

// UpdatePermission updates an existing special permission in Neo4j
func (dao *PermissionDAO) UpdatePermission(ctx context.Context, perm model.SpecialPermission, actorUserID string) (model.SpecialPermission, error) {
	start := time.Now()
	logger.Info("Updating special permission", zap.String("permissionID", perm.ID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	existing, err := dao.GetPermission(ctx, perm.ID)
	if err != nil {
		return model.SpecialPermission{}, err
	}
	perm.CreatedAt = existing.CreatedAt
	perm.UpdatedAt = time.Now().UTC()

	_, err = session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (sp:SPECIAL_PERMISSION {id: $id})
        SET sp += $props
        RETURN sp.id as id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":    perm.ID,
			"props": permissionProps(perm),
		})
		if err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}
		if result.Next() {
			return nil, nil
		}
		return nil, doorward_errors.ErrPermissionNotFound
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to update special permission",
			zap.Error(err),
			zap.String("permissionID", perm.ID),
			zap.Duration("duration", duration))
		return model.SpecialPermission{}, err
	}

	logger.Info("Special permission updated successfully",
		zap.String("permissionID", perm.ID),
		zap.Duration("duration", duration))

	dao.auditChange(ctx, audit.ActionPermissionUpdated, actorUserID, perm)
	return perm, nil
}

// DeletePermission removes a special permission from Neo4j
func (dao *PermissionDAO) DeletePermission(ctx context.Context, permissionID string, actorUserID string) error {
	logger.Info("Deleting special permission", zap.String("permissionID", permissionID))

	existing, err := dao.GetPermission(ctx, permissionID)
	if err != nil {
		return err
	}

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err = session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (sp:SPECIAL_PERMISSION {id: $id})
        DELETE sp
        `
		_, err := transaction.Run(query, map[string]interface{}{"id": permissionID})
		if err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to delete special permission",
			zap.Error(err),
			zap.String("permissionID", permissionID))
		return err
	}

	dao.auditChange(ctx, audit.ActionPermissionDeleted, actorUserID, existing)
	return nil
}

// GetPermission retrieves a special permission by ID
func (dao *PermissionDAO) GetPermission(ctx context.Context, permissionID string) (model.SpecialPermission, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (sp:SPECIAL_PERMISSION {id: $id})
        RETURN sp
        `
		records, err := transaction.Run(query, map[string]interface{}{"id": permissionID})
		if err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}
		if records.Next() {
			node, found := records.Record().Get("sp")
			if !found {
				return nil, doorward_errors.ErrInternalServer
			}
			return node, nil
		}
		return nil, doorward_errors.ErrPermissionNotFound
	})
	if err != nil {
		return model.SpecialPermission{}, err
	}

	return permissionFromNode(result.(dbtype.Node))
}

// PermissionsForSubject lists every special permission for a subject user,
// active or not. Date filtering is the schedule resolver's job.
func (dao *PermissionDAO) PermissionsForSubject(ctx context.Context, subjectUserID string) ([]model.SpecialPermission, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (sp:SPECIAL_PERMISSION {subjectUserId: $subjectUserId})
        RETURN sp
        ORDER BY sp.createdAt
        `
		records, err := transaction.Run(query, map[string]interface{}{"subjectUserId": subjectUserID})
		if err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}

		var permissions []model.SpecialPermission
		for records.Next() {
			node, found := records.Record().Get("sp")
			if !found {
				continue
			}
			perm, err := permissionFromNode(node.(dbtype.Node))
			if err != nil {
				logger.Warn("Skipping unreadable permission node", zap.Error(err))
				continue
			}
			permissions = append(permissions, perm)
		}
		return permissions, nil
	})
	if err != nil {
		logger.Error("Failed to list special permissions",
			zap.Error(err),
			zap.String("subjectUserID", subjectUserID))
		return nil, err
	}

	return result.([]model.SpecialPermission), nil
}

// ActiveForUser implements the permission source consumed by the access
// engine: all permissions for the subject with Active set. The resolver
// applies the date bounds itself.
func (dao *PermissionDAO) ActiveForUser(ctx context.Context, subjectUserID string) ([]model.SpecialPermission, error) {
	all, err := dao.PermissionsForSubject(ctx, subjectUserID)
	if err != nil {
		return nil, err
	}
	var active []model.SpecialPermission
	for _, perm := range all {
		if perm.Active {
			active = append(active, perm)
		}
	}
	return active, nil
}

func (dao *PermissionDAO) auditChange(ctx context.Context, action, actorUserID string, perm model.SpecialPermission) {
	details, _ := json.Marshal(perm)
	rec := audit.Record{
		Timestamp:     time.Now().UTC(),
		Action:        action,
		ActorUserID:   actorUserID,
		SubjectUserID: perm.SubjectUserID,
		ChangeDetails: details,
	}
	if err := dao.AuditService.LogRecord(ctx, rec); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}

func permissionProps(perm model.SpecialPermission) map[string]interface{} {
	return map[string]interface{}{
		"subjectUserId": perm.SubjectUserID,
		"dateFrom":      nullableString(perm.DateFrom),
		"dateTo":        nullableString(perm.DateTo),
		"timeFrom":      nullableString(perm.TimeFrom),
		"timeTo":        nullableString(perm.TimeTo),
		"active":        perm.Active,
		"note":          perm.Note,
		"createdAt":     perm.CreatedAt.Format(time.RFC3339),
		"updatedAt":     perm.UpdatedAt.Format(time.RFC3339),
	}
}

func permissionFromNode(node dbtype.Node) (model.SpecialPermission, error) {
	props := node.Props

	perm := model.SpecialPermission{
		ID:            stringProp(props, "id"),
		SubjectUserID: stringProp(props, "subjectUserId"),
		DateFrom:      stringPropPtr(props, "dateFrom"),
		DateTo:        stringPropPtr(props, "dateTo"),
		TimeFrom:      stringPropPtr(props, "timeFrom"),
		TimeTo:        stringPropPtr(props, "timeTo"),
		Note:          stringProp(props, "note"),
	}
	if active, ok := props["active"].(bool); ok {
		perm.Active = active
	}
	if created, err := time.Parse(time.RFC3339, stringProp(props, "createdAt")); err == nil {
		perm.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339, stringProp(props, "updatedAt")); err == nil {
		perm.UpdatedAt = updated
	}
	return perm, nil
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func stringPropPtr(props map[string]interface{}, key string) *string {
	if v, ok := props[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

func nullableString(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}
