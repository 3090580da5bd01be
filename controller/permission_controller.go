// controller/permission_controller.go
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

type PermissionController struct {
	permissionService service.IPermissionService
}

func NewPermissionController(permissionService service.IPermissionService) *PermissionController {
	return &PermissionController{
		permissionService: permissionService,
	}
}

// RegisterRoutes registers the API routes
func (pc *PermissionController) RegisterRoutes(r *gin.RouterGroup) {
	permissions := r.Group("/permissions")
	permissions.Use(middleware.Principal())
	{
		permissions.POST("", pc.CreatePermission)
		permissions.PUT("/:id", pc.UpdatePermission)
		permissions.DELETE("/:id", pc.DeletePermission)
		permissions.GET("/:id", pc.GetPermission)
	}

	users := r.Group("/users")
	users.Use(middleware.Principal())
	{
		users.GET("/:id/permissions", pc.ListPermissions)
	}
}

// CreatePermission endpoint
func (pc *PermissionController) CreatePermission(c *gin.Context) {
	actor, err := util.GetPrincipalFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var perm model.SpecialPermission
	if err := c.ShouldBindJSON(&perm); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid permission data", doorward_errors.ErrInvalidPermissionData)
		return
	}

	created, err := pc.permissionService.CreatePermission(c, actor, perm)
	if err != nil {
		pc.respondWithServiceError(c, err, "Failed to create permission")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdatePermission endpoint
func (pc *PermissionController) UpdatePermission(c *gin.Context) {
	actor, err := util.GetPrincipalFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var perm model.SpecialPermission
	if err := c.ShouldBindJSON(&perm); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid permission data", doorward_errors.ErrInvalidPermissionData)
		return
	}
	perm.ID = c.Param("id")

	updated, err := pc.permissionService.UpdatePermission(c, actor, perm)
	if err != nil {
		pc.respondWithServiceError(c, err, "Failed to update permission")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeletePermission endpoint
func (pc *PermissionController) DeletePermission(c *gin.Context) {
	actor, err := util.GetPrincipalFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	if err := pc.permissionService.DeletePermission(c, actor, c.Param("id")); err != nil {
		pc.respondWithServiceError(c, err, "Failed to delete permission")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPermission endpoint
func (pc *PermissionController) GetPermission(c *gin.Context) {
	actor, err := util.GetPrincipalFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	perm, err := pc.permissionService.GetPermission(c, actor, c.Param("id"))
	if err != nil {
		pc.respondWithServiceError(c, err, "Failed to get permission")
		return
	}

	c.JSON(http.StatusOK, perm)
}

// ListPermissions endpoint lists all special permissions for a subject user
func (pc *PermissionController) ListPermissions(c *gin.Context) {
	actor, err := util.GetPrincipalFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	permissions, err := pc.permissionService.ListPermissions(c, actor, c.Param("id"))
	if err != nil {
		pc.respondWithServiceError(c, err, "Failed to list permissions")
		return
	}

	c.JSON(http.StatusOK, permissions)
}

func (pc *PermissionController) respondWithServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, doorward_errors.ErrPermissionNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Permission not found", err)
	case errors.Is(err, doorward_errors.ErrInvalidPermissionData):
		util.RespondWithError(c, http.StatusBadRequest, "Invalid permission data", err)
	case errors.Is(err, doorward_errors.ErrUnauthorized):
		util.RespondWithError(c, http.StatusForbidden, "Forbidden", err)
	case errors.Is(err, doorward_errors.ErrForbiddenSubject):
		util.RespondWithError(c, http.StatusForbidden, "Subject user not managed by caller", err)
	case errors.Is(err, doorward_errors.ErrDatabaseOperation):
		util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, fallback, doorward_errors.ErrInternalServer)
	}
}
