// controller/schedule_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	doorward_errors "github.com/doorward-io/doorward/errors"
	"github.com/doorward-io/doorward/middleware"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/service"
	"github.com/doorward-io/doorward/util"
)

type ScheduleController struct {
	scheduleService service.IScheduleService
}

func NewScheduleController(scheduleService service.IScheduleService) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
	}
}

// RegisterRoutes registers the API routes
func (sc *ScheduleController) RegisterRoutes(r *gin.RouterGroup) {
	schedule := r.Group("/schedule")
	schedule.Use(middleware.Principal())
	{
		schedule.GET("", sc.GetGlobalSchedule)
		schedule.PUT("", sc.ReplaceGlobalSchedule)
	}
}

// GetGlobalSchedule endpoint
func (sc *ScheduleController) GetGlobalSchedule(c *gin.Context) {
	actor, err := util.GetPrincipalFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	schedule, err := sc.scheduleService.GetGlobalSchedule(c, actor)
	if err != nil {
		sc.respondWithServiceError(c, err, "Failed to get global schedule")
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// ReplaceGlobalSchedule endpoint: full replacement, admin only
func (sc *ScheduleController) ReplaceGlobalSchedule(c *gin.Context) {
	actor, err := util.GetPrincipalFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var schedule model.GlobalSchedule
	if err := c.ShouldBindJSON(&schedule); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid schedule data", doorward_errors.ErrInvalidScheduleData)
		return
	}

	if err := sc.scheduleService.ReplaceGlobalSchedule(c, actor, schedule); err != nil {
		sc.respondWithServiceError(c, err, "Failed to replace global schedule")
		return
	}

	c.JSON(http.StatusOK, schedule)
}

func (sc *ScheduleController) respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, doorward_errors.ErrUnauthorized):
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
	case errors.Is(err, doorward_errors.ErrInvalidScheduleData):
		util.RespondWithError(c, http.StatusBadRequest, "Invalid schedule data", err)
	case errors.Is(err, doorward_errors.ErrDatabaseOperation):
		util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, fallback, doorward_errors.ErrInternalServer)
	}
}
