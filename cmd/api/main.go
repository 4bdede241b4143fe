package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kitloop/docs"
	"kitloop/internal/auth"
	"kitloop/internal/config"
	"kitloop/internal/database"
	"kitloop/internal/database/migration"
	handlers "kitloop/internal/http/handler"
	"kitloop/internal/http/middleware"
	kitotel "kitloop/internal/otel"
	"kitloop/internal/repository/postgres"
	"kitloop/internal/service"
	"kitloop/internal/storage"
	"kitloop/internal/upload"
)

// ticketRequestBodyLimit bounds the JSON ticket request itself, not the
// uploaded file (which never passes through this service).
const ticketRequestBodyLimit = 256 << 10

// @title Kitloop Upload Ticket API
// @version 1.0
// @BasePath /
func main() {
	ctx := context.Background()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Tracing first so DB and HTTP instrumentation attach to a real provider
	shutdownTracing, err := kitotel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := migration.EnsureMigrated(migrateCtx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// S3-compatible signer; ensures every rule bucket exists up front
	signer, err := storage.NewMinIO(cfg.MinIO, upload.Buckets())
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories, service, and token verification
	providerRepo := postgres.NewProviderPostgres(db)
	reservationRepo := postgres.NewReservationPostgres(db)
	auditRepo := postgres.NewAuditPostgres(db)
	ticketSvc := service.NewTicketService(providerRepo, reservationRepo, auditRepo, signer)
	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)

	app := fiber.New(fiber.Config{
		BodyLimit:    ticketRequestBodyLimit,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(cors.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register prometheus metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected collaborators
	handlers.RegisterRoutes(app, db, ticketSvc, verifier)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
