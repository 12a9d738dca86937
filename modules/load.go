package modules

import (
	auditpersistence "github.com/hse-digital/platform/modules/audit/infrastructure/persistence"
	auditcontrollers "github.com/hse-digital/platform/modules/audit/presentation/controllers"
	auditservices "github.com/hse-digital/platform/modules/audit/services"
	corepersistence "github.com/hse-digital/platform/modules/core/infrastructure/persistence"
	coreservices "github.com/hse-digital/platform/modules/core/services"
	incidentpersistence "github.com/hse-digital/platform/modules/incident/infrastructure/persistence"
	incidentservices "github.com/hse-digital/platform/modules/incident/services"
	permitpersistence "github.com/hse-digital/platform/modules/permit/infrastructure/persistence"
	permitservices "github.com/hse-digital/platform/modules/permit/services"
	stationpersistence "github.com/hse-digital/platform/modules/station/infrastructure/persistence"
	stationservices "github.com/hse-digital/platform/modules/station/services"
	"github.com/hse-digital/platform/pkg/application"
)

// Load wires every module's repositories and services into the application.
// Importing the persistence packages also registers their tables with the
// tenancy allow-list.
func Load(app application.Application) {
	bus := app.EventPublisher()

	app.RegisterServices(
		coreservices.NewTenantService(corepersistence.NewTenantRepository(), bus),
		coreservices.NewUserService(corepersistence.NewUserRepository(), bus),
		stationservices.NewStationService(stationpersistence.NewStationRepository(), bus),
		auditservices.NewAuditService(auditpersistence.NewAuditRepository(), bus),
		incidentservices.NewIncidentService(incidentpersistence.NewIncidentRepository(), bus),
		permitservices.NewPermitService(permitpersistence.NewPermitRepository(), bus),
	)

	app.RegisterControllers(
		auditcontrollers.NewAuditController(app),
	)
}
