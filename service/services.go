// service/services.go
package service

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/doorward-io/doorward/actuator"
	"github.com/doorward-io/doorward/audit"
	"github.com/doorward-io/doorward/dao"
	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/store"
	"github.com/doorward-io/doorward/util"
)

type Services struct {
	Access     IAccessService
	Permission IPermissionService
	Schedule   IScheduleService
	Audit      audit.Service
}

func InitializeServices(
	driver neo4j.Driver,
	events store.EventStore,
	guards store.GuardStore,
	actuatorClient actuator.Client,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	eventBus *util.EventBus,
	accessConfig AccessConfig,
	scheduleDefaults model.GlobalSchedule,
) (*Services, error) {
	permissionDAO := dao.NewPermissionDAO(driver, auditService)
	scheduleDAO := dao.NewScheduleDAO(driver, auditService, scheduleDefaults)

	services := &Services{
		Access: NewAccessService(
			permissionDAO,
			scheduleDAO,
			events,
			guards,
			actuatorClient,
			auditService,
			eventBus,
			validationUtil,
			accessConfig,
		),
		Permission: NewPermissionService(permissionDAO, validationUtil),
		Schedule:   NewScheduleService(scheduleDAO, validationUtil),
		Audit:      auditService,
	}

	return services, nil
}
