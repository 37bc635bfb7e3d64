package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"imageconv/internal/config"
	"imageconv/internal/converter"
	"imageconv/internal/database"
	"imageconv/internal/database/migration"
	handlers "imageconv/internal/http/handler"
	"imageconv/internal/http/middleware"
	"imageconv/internal/otel"
	"imageconv/internal/reconcile"
	"imageconv/internal/repository/postgres"
	"imageconv/internal/service"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := time.UTC

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// The request log is also what GET /log/ serves, so it goes to a file
	// as well as stdout.
	if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
		log.Fatalf("failed to create log directory: %v", err)
	}
	logFile, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer logFile.Close()
	logSink := io.MultiWriter(os.Stdout, logFile)

	conv, err := converter.New(cfg.Images, cfg.MaxTransforms)
	if err != nil {
		log.Fatalf("failed to initialize converter: %v", err)
	}

	// Initialize repositories and services
	imgRepo := postgres.NewImagePostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	imgSvc := service.NewImageService(conv, imgRepo, logSink)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.MaxUploadBytes,
		// Uploads are read from the request stream so fasthttp's form
		// parsing never touches the multipart body.
		StreamRequestBody: true,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.LoggerWithWriter(logSink, loc))
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMw, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMw.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, imgSvc, userRepo, cfg)

	// Background sweep for image records whose file never materialized
	go reconcile.RunPeriodic(ctx, imgRepo, conv.FilePath,
		time.Duration(cfg.ReconcileIntervalSec)*time.Second, logSink)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
