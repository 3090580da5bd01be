// controller/access_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doorward-io/doorward/actuator"
	doorward_errors "github.com/doorward-io/doorward/errors"
	"github.com/doorward-io/doorward/middleware"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/service"
	"github.com/doorward-io/doorward/util"
)

type AccessController struct {
	accessService service.IAccessService
}

func NewAccessController(accessService service.IAccessService) *AccessController {
	return &AccessController{
		accessService: accessService,
	}
}

// SubmitRequest is the inbound request body. The location sample is optional
// at the transport level; whether its absence is acceptable depends on the
// caller's role and is decided by the engine.
type SubmitRequest struct {
	Location *model.LocationSample `json:"location,omitempty"`
}

// CallbackRequest is what the external actuator posts when the physical
// action completes or fails.
type CallbackRequest struct {
	EventID string           `json:"event_id" binding:"required"`
	Outcome actuator.Outcome `json:"outcome" binding:"required"`
}

// RegisterRoutes registers the API routes
func (ac *AccessController) RegisterRoutes(r *gin.RouterGroup) {
	access := r.Group("/access")
	access.Use(middleware.Principal())
	{
		access.POST("/requests", ac.SubmitAccessRequest)
		access.GET("/events/:id", ac.GetEventStatus)
	}

	// The actuator authenticates out of band; its callback carries no
	// principal headers.
	r.POST("/actuator/callbacks", ac.ActuatorCallback)
}

// SubmitAccessRequest endpoint: runs the full authorization pipeline and either
// returns a terminal decision or an event to poll.
func (ac *AccessController) SubmitAccessRequest(c *gin.Context) {
	principal, err := util.GetPrincipalFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req SubmitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid request data", doorward_errors.ErrInvalidRequestData)
			return
		}
	}

	event, err := ac.accessService.Submit(c, principal, req.Location)
	if err != nil {
		switch {
		case errors.Is(err, doorward_errors.ErrInvalidPrincipal):
			util.RespondWithError(c, http.StatusUnauthorized, "Invalid principal", err)
		case errors.Is(err, doorward_errors.ErrInvalidRequestData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid request data", err)
		case errors.Is(err, doorward_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to submit access request", doorward_errors.ErrInternalServer)
		}
		return
	}

	if event.Terminal() {
		// A fully classified rejection is a decision, not a transport error.
		c.JSON(http.StatusOK, event)
		return
	}
	c.JSON(http.StatusAccepted, event)
}

// GetEventStatus endpoint: the poll side of the correlation contract. Safe
// to call repeatedly and long after the event went terminal.
func (ac *AccessController) GetEventStatus(c *gin.Context) {
	eventID := c.Param("id")

	event, err := ac.accessService.Status(c, eventID)
	if err != nil {
		if errors.Is(err, doorward_errors.ErrUnknownEvent) {
			util.RespondWithError(c, http.StatusNotFound, "Unknown event", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to read event status", err)
		}
		return
	}

	c.JSON(http.StatusOK, event)
}

// ActuatorCallback endpoint: applies the actuator's reported outcome to the
// awaiting event. Late and duplicate callbacks are acknowledged but ignored.
func (ac *AccessController) ActuatorCallback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid callback data", doorward_errors.ErrInvalidRequestData)
		return
	}

	event, applied, err := ac.accessService.HandleActuatorCallback(c, req.EventID, req.Outcome)
	if err != nil {
		switch {
		case errors.Is(err, doorward_errors.ErrUnknownEvent):
			util.RespondWithError(c, http.StatusNotFound, "Unknown event", err)
		case errors.Is(err, doorward_errors.ErrInvalidOutcome):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid actuator outcome", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to apply actuator callback", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"applied": applied, "event": event})
}
