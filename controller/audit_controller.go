// controller/audit_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doorward-io/doorward/audit"
	doorward_errors "github.com/doorward-io/doorward/errors"
	"github.com/doorward-io/doorward/middleware"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/util"
	helper_util "github.com/doorward-io/doorward/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/audit")
	records.Use(middleware.Principal())
	{
		records.GET("/records", ac.ListRecords)
	}
}

// ListRecords endpoint: reads the append-only ledger. Admins may query any
// subject; supervisors only their assigned users, and must name one.
func (ac *AuditController) ListRecords(c *gin.Context) {
	actor, err := util.GetPrincipalFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	subjectUserID := c.Query("subject_user_id")
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleSupervisor:
		if subjectUserID == "" || !actor.Manages(subjectUserID) {
			util.RespondWithError(c, http.StatusForbidden, "Subject user not managed by caller", doorward_errors.ErrForbiddenSubject)
			return
		}
	default:
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", doorward_errors.ErrUnauthorized)
		return
	}

	to := time.Now().UTC()
	from := to.Add(-24 * time.Hour)
	if raw := c.Query("to"); raw != "" {
		if to, err = helper_util.ParseTime(raw); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid time bound", doorward_errors.ErrInvalidRequestData)
			return
		}
	}
	if raw := c.Query("from"); raw != "" {
		if from, err = helper_util.ParseTime(raw); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid time bound", doorward_errors.ErrInvalidRequestData)
			return
		}
	}

	records, err := ac.auditService.QueryRecords(c, from, to, subjectUserID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit records", err)
		return
	}

	c.JSON(http.StatusOK, records)
}
