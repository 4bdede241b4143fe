package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"kitloop/internal/auth"
	"kitloop/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal: business logic lives in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.TicketService, verifier auth.Verifier) {
	// Health endpoints
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Upload ticket issuance; OPTIONS answers CORS preflight with an empty
	// success, any other method on the path gets a 405 from the router.
	app.Post("/upload-tickets", IssueUploadTicket(svc, verifier))
	app.Options("/upload-tickets", Preflight())

	// Public rule data for client-side pre-validation
	app.Get("/upload-rules/:useCase", GetUploadRule())

	// Provider-scoped audit trail
	app.Get("/audit-events", ListAuditEvents(svc, verifier))
}
