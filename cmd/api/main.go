package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/autogest-api/docs"
	appanalytics "github.com/jhoicas/autogest-api/internal/application/analytics"
	"github.com/jhoicas/autogest-api/internal/application/auth"
	"github.com/jhoicas/autogest-api/internal/application/renave"
	"github.com/jhoicas/autogest-api/internal/application/usecase"
	"github.com/jhoicas/autogest-api/internal/application/vehicle"
	"github.com/jhoicas/autogest-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/autogest-api/internal/infrastructure/pdf"
	"github.com/jhoicas/autogest-api/internal/infrastructure/postgres"
	infrarenave "github.com/jhoicas/autogest-api/internal/infrastructure/renave"
	httpRouter "github.com/jhoicas/autogest-api/internal/interfaces/http"
	"github.com/jhoicas/autogest-api/pkg/config"
	pkgjwt "github.com/jhoicas/autogest-api/pkg/jwt"
	"github.com/jhoicas/autogest-api/pkg/logger"
)

// @title        AutoGest API
// @version      1.0
// @description  Inventario de vehículos multiempresa con emisión RENAVE.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	m := metrics.New()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	tokens := pkgjwt.Issuer{
		Secret:     cfg.JWT.Secret,
		Name:       cfg.JWT.Issuer,
		ExpMinutes: cfg.JWT.Expiration,
	}
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, tokens, m, log)

	vehicleUC := vehicle.NewUseCase(vehicleRepo, companyRepo, txRunner, vehicle.Config{
		PlateScope: vehicle.PlateScope(cfg.Registry.PlateUniqueness),
		Numbers:    vehicle.NewRandomNumberGenerator(cfg.Renave.Prefix, cfg.Renave.Digits),
	}, m, log)
	dashboardUC := appanalytics.NewDashboardUseCase(vehicleRepo)

	// Documentos RENAVE: certificado PDF y XML firmado con la credencial de cada empresa
	credentials := infrarenave.NewCredentialLoader()
	renaveUC := renave.NewUseCase(renave.Deps{
		Vehicles:    vehicleUC,
		CompanyRepo: companyRepo,
		Renderer:    infrapdf.NewCertificateGenerator(saoPaulo(log)),
		XML:         infrarenave.NewXMLBuilder(),
		Signer:      infrarenave.NewSignatureService(),
		Loader:      credentials,
		Metrics:     m,
		Log:         log,
	})

	companyUC := usecase.NewCompanyUseCase(companyRepo, credentials, log)
	userUC := usecase.NewUserUseCase(userRepo, companyRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "AutoGest API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		VehicleUC:    vehicleUC,
		DashboardUC:  dashboardUC,
		RenaveUC:     renaveUC,
		CompanyUC:    companyUC,
		UserUC:       userUC,
		LoginLimiter: httpRouter.NewLoginLimiter(cfg.RateLimit.LoginPerSecond, cfg.RateLimit.LoginBurst, m),
		Metrics:      m,
		Log:          log,
		ServiceName:  cfg.App.Name,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// saoPaulo zona horaria de las fechas impresas en el certificado. Sin tzdata se usa UTC.
func saoPaulo(log *logger.Logger) *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		log.Warn().Err(err).Msg("zona horaria no disponible, se usa UTC")
		return time.UTC
	}
	return loc
}
