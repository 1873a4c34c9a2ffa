package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"photogallery/docs"
	"photogallery/internal/config"
	"photogallery/internal/database"
	"photogallery/internal/database/migration"
	handlers "photogallery/internal/http/handler"
	"photogallery/internal/http/middleware"
	"photogallery/internal/logging"
	"photogallery/internal/otel"
	"photogallery/internal/queue"
	"photogallery/internal/repository/postgres"
	"photogallery/internal/service"
	"photogallery/internal/storage"
)

// @title Photo Gallery API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "photogallery", logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db := mustOpenDB(ctx, cfg.Database, logger)
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	store, err := storage.New(cfg.Storage, cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize file store: %v", err)
	}

	broker, closeBroker, err := queue.Connect(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to connect to broker: %v", err)
	}
	defer closeBroker()

	// Initialize repositories and services
	photoRepo := postgres.NewPhotoPostgres(db)
	photoSvc := service.NewPhotoService(store, photoRepo, broker)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    64 * 1024 * 1024,
	})

	// Register global middleware
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(logger))
	app.Use(metrics.Handler())

	app.Get("/metrics", handlers.Metrics(reg))

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

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, photoSvc, store)

	go func() {
		<-ctx.Done()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := ":" + cfg.Port
	logger.Info("server_starting", map[string]any{"addr": addr, "broker": cfg.Queue.Broker, "file_store": cfg.Storage.Backend})

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

// mustOpenDB either blocks until the database is reachable or fails fast,
// depending on DB_WAIT_FOR_READY.
func mustOpenDB(ctx context.Context, c config.DatabaseConfig, logger *logging.Logger) *sql.DB {
	if !c.WaitForReady {
		db, err := database.NewPostgres(c)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		return db
	}

	db, err := database.Open(c)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if err := database.WaitForPostgres(ctx, db, time.Duration(c.WaitIntervalSec)*time.Second, logger); err != nil {
		log.Fatalf("database never became ready: %v", err)
	}
	return db
}
