// dao/schedule_dao.go
package dao

import (
	"context"
	"encoding/json"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"go.uber.org/zap"

	"github.com/doorward-io/doorward/audit"
	doorward_errors "github.com/doorward-io/doorward/errors"
	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
)

// scheduleNodeID is the id of the singleton global schedule node. The
// schedule is replaced as a whole document, never merged field by field.
const scheduleNodeID = "global"

// ScheduleDAO persists the global weekly schedule in Neo4j.
type ScheduleDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
	Defaults     model.GlobalSchedule
}

func NewScheduleDAO(driver neo4j.Driver, auditService audit.Service, defaults model.GlobalSchedule) *ScheduleDAO {
	return &ScheduleDAO{Driver: driver, AuditService: auditService, Defaults: defaults}
}

// GetGlobalSchedule returns the stored schedule, or the configured defaults
// when none has been stored yet.
func (dao *ScheduleDAO) GetGlobalSchedule(ctx context.Context) (model.GlobalSchedule, error) {
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (s:GLOBAL_SCHEDULE {id: $id})
        RETURN s
        `
		records, err := transaction.Run(query, map[string]interface{}{"id": scheduleNodeID})
		if err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}
		if records.Next() {
			node, found := records.Record().Get("s")
			if !found {
				return nil, doorward_errors.ErrInternalServer
			}
			return node, nil
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to load global schedule", zap.Error(err))
		return model.GlobalSchedule{}, err
	}
	if result == nil {
		return dao.Defaults, nil
	}

	return scheduleFromNode(result.(dbtype.Node))
}

// ReplaceGlobalSchedule stores the schedule as a full replacement of the
// previous document.
func (dao *ScheduleDAO) ReplaceGlobalSchedule(ctx context.Context, schedule model.GlobalSchedule, actorUserID string) error {
	start := time.Now()
	logger.Info("Replacing global schedule", zap.String("actorUserID", actorUserID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	doc, err := json.Marshal(schedule)
	if err != nil {
		return doorward_errors.ErrInvalidScheduleData
	}

	_, err = session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MERGE (s:GLOBAL_SCHEDULE {id: $id})
        SET s.document = $document, s.updatedAt = $updatedAt
        RETURN s.id as id
        `
		result, err := transaction.Run(query, map[string]interface{}{
			"id":        scheduleNodeID,
			"document":  string(doc),
			"updatedAt": time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return nil, doorward_errors.ErrDatabaseOperation
		}
		if result.Next() {
			return nil, nil
		}
		return nil, doorward_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to replace global schedule",
			zap.Error(err),
			zap.Duration("duration", duration))
		return err
	}

	logger.Info("Global schedule replaced successfully", zap.Duration("duration", duration))

	rec := audit.Record{
		Timestamp:     time.Now().UTC(),
		Action:        audit.ActionScheduleReplaced,
		ActorUserID:   actorUserID,
		ChangeDetails: doc,
	}
	if err := dao.AuditService.LogRecord(ctx, rec); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
	return nil
}

func scheduleFromNode(node dbtype.Node) (model.GlobalSchedule, error) {
	doc, ok := node.Props["document"].(string)
	if !ok {
		return model.GlobalSchedule{}, doorward_errors.ErrInvalidScheduleData
	}

	var schedule model.GlobalSchedule
	if err := json.Unmarshal([]byte(doc), &schedule); err != nil {
		logger.Error("Stored global schedule is unreadable", zap.Error(err))
		return model.GlobalSchedule{}, doorward_errors.ErrInvalidScheduleData
	}
	return schedule, nil
}
