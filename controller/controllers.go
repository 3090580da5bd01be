// controller/controllers.go
package controller

import "github.com/doorward-io/doorward/service"

type Controllers struct {
	Access     *AccessController
	Permission *PermissionController
	Schedule   *ScheduleController
	Audit      *AuditController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Access:     NewAccessController(services.Access),
		Permission: NewPermissionController(services.Permission),
		Schedule:   NewScheduleController(services.Schedule),
		Audit:      NewAuditController(services.Audit),
	}
}
