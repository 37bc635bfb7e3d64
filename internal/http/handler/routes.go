package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"imageconv/internal/config"
	"imageconv/internal/http/middleware"
	"imageconv/internal/repository"
	"imageconv/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
//
// The probe endpoints stay unauthenticated. Everything else sits
// behind bearer auth. Fiber matches routes in registration order, so
// the fixed paths must come before the /:id wildcard.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.ImageService, users repository.UserRepository, cfg *config.AppConfig) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	authorized := middleware.BearerAuth(users)

	app.Get("/log/", authorized, GetLog(cfg.Log.Path))
	app.Post("/", authorized, UploadImage(svc))
	app.Get("/:id", authorized, GetImage(svc))
}
