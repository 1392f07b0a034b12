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
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/factura-intake/internal/application/auth"
	"github.com/jhoicas/factura-intake/internal/application/usecase"
	infraexport "github.com/jhoicas/factura-intake/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/factura-intake/internal/infrastructure/pdf"
	"github.com/jhoicas/factura-intake/internal/infrastructure/postgres"
	"github.com/jhoicas/factura-intake/internal/infrastructure/storage"
	"github.com/jhoicas/factura-intake/internal/infrastructure/workflow"
	httpRouter "github.com/jhoicas/factura-intake/internal/interfaces/http"
	"github.com/jhoicas/factura-intake/pkg/config"
	"github.com/jhoicas/factura-intake/pkg/logger"

	_ "github.com/jhoicas/factura-intake/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	groupRepo := postgres.NewWhatsAppGroupRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	store, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.StagingDir)
	if err != nil {
		log.Fatal().Err(err).Msg("directorios de carga")
	}

	n8nClient := workflow.NewN8NClient(
		cfg.Workflow.WebhookURL(),
		cfg.Workflow.APIKey,
		time.Duration(cfg.Workflow.TimeoutSeconds)*time.Second,
		log,
	)
	callbackURL := cfg.Workflow.CallbackBaseURL + "/api/webhooks/n8n-callback"

	intakeUC := usecase.NewIntakeUseCase(
		invoiceRepo, txRunner, store, n8nClient,
		callbackURL, cfg.Upload.MaxFileSize, cfg.Upload.MaxRetries, log,
	)
	invoiceUC := usecase.NewInvoiceUseCase(invoiceRepo, store, log)
	webhookUC := usecase.NewWebhookUseCase(invoiceRepo, groupRepo, txRunner, log)
	whatsappUC := usecase.NewWhatsAppUseCase(groupRepo, invoiceRepo, log)
	statsUC := usecase.NewStatsUseCase(statsRepo, groupRepo)
	exportUC := usecase.NewExportUseCase(
		invoiceRepo,
		infraexport.NewXMLExporter(),
		infraexport.NewCSVExporter(),
		infrapdf.NewMarotoSummaryGenerator(),
	)
	authUC := auth.NewUseCase(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    int(cfg.Upload.MaxFileSize) + 1024*1024, // margen para el resto del multipart
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.Max,
		Expiration: time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Factura Intake API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		IntakeUC:            intakeUC,
		InvoiceUC:           invoiceUC,
		WebhookUC:           webhookUC,
		WhatsAppUC:          whatsappUC,
		StatsUC:             statsUC,
		ExportUC:            exportUC,
		AuthUC:              authUC,
		WhatsAppVerifyToken: cfg.WhatsApp.VerifyToken,
		JWTSecret:           cfg.JWT.Secret,
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
