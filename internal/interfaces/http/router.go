package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	appanalytics "github.com/jhoicas/autogest-api/internal/application/analytics"
	"github.com/jhoicas/autogest-api/internal/application/auth"
	"github.com/jhoicas/autogest-api/internal/application/renave"
	"github.com/jhoicas/autogest-api/internal/application/usecase"
	"github.com/jhoicas/autogest-api/internal/application/vehicle"
	"github.com/jhoicas/autogest-api/internal/domain/entity"
	"github.com/jhoicas/autogest-api/internal/infrastructure/metrics"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	VehicleUC   *vehicle.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	RenaveUC    *renave.UseCase
	CompanyUC   *usecase.CompanyUseCase
	UserUC      *usecase.UserUseCase

	Resolver     CallerResolver // nil = AuthUC
	LoginLimiter *LoginLimiter  // nil = sin límite
	Metrics      *metrics.Metrics
	Log          *logger.Logger
	ServiceName  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("http")
	resolver := deps.Resolver
	if resolver == nil {
		resolver = deps.AuthUC
	}

	if deps.Metrics != nil {
		app.Use(RequestLogger(log, deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	} else {
		app.Use(RequestLogger(log, nil))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Auth (público, con límite por IP)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := api.Group("/auth")
	if deps.LoginLimiter != nil {
		authGroup.Post("/login", deps.LoginLimiter.Middleware(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(resolver, log))
	protected.Get("/auth/me", authHandler.Me)

	// Vehicles
	vehicleHandler := NewVehicleHandler(deps.VehicleUC, log)
	vehicles := protected.Group("/vehicles")
	vehicles.Get("/", RequireOperation(entity.OpVehicleRead), vehicleHandler.List)
	vehicles.Post("/", RequireOperation(entity.OpVehicleWrite), vehicleHandler.Create)
	vehicles.Get("/:id", RequireOperation(entity.OpVehicleRead), vehicleHandler.GetByID)
	vehicles.Delete("/:id", RequireOperation(entity.OpVehicleWrite), vehicleHandler.Delete)
	vehicles.Post("/:id/renave", RequireOperation(entity.OpVehicleWrite), vehicleHandler.IssueRegistration)
	vehicles.Post("/:id/sell", RequireOperation(entity.OpVehicleWrite), vehicleHandler.Sell)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	protected.Get("/dashboard", RequireOperation(entity.OpDashboardRead), dashboardHandler.Get)

	// Documentos RENAVE
	renaveHandler := NewRenaveHandler(deps.RenaveUC, log)
	docs := protected.Group("/renave", RequireOperation(entity.OpCertificateRender))
	docs.Get("/:id/pdf", renaveHandler.Certificate)
	docs.Get("/:id/xml", renaveHandler.ExportXML)

	// Companies (solo MASTER)
	companyHandler := NewCompanyHandler(deps.CompanyUC, log)
	userHandler := NewUserHandler(deps.UserUC, log)
	companies := protected.Group("/companies", RequireOperation(entity.OpCompanyManage))
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Patch("/:id/status", companyHandler.UpdateStatus)
	companies.Put("/:id/certificate", companyHandler.UploadCertificate)
	companies.Get("/:id/users", RequireOperation(entity.OpUserManage), userHandler.ListByCompany)

	// Users (solo MASTER)
	protected.Post("/users", RequireOperation(entity.OpUserManage), userHandler.Create)
}
