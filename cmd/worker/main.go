package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"photogallery/internal/config"
	handlers "photogallery/internal/http/handler"
	"photogallery/internal/logging"
	"photogallery/internal/otel"
	"photogallery/internal/queue"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "photogallery-worker", logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	broker, closeBroker, err := queue.Connect(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to connect to broker: %v", err)
	}
	defer closeBroker()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	handle, err := queue.Instrument(queue.ProcessImage(logger), reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/healthz", handlers.LivenessProbe())
	app.Get("/metrics", handlers.Metrics(reg))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return broker.Run(gctx, handle)
	})
	g.Go(func() error {
		return app.Listen(":" + cfg.WorkerPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		return app.ShutdownWithTimeout(5 * time.Second)
	})

	if err := g.Wait(); err != nil {
		logger.Error("worker_stopped", err, nil)
		os.Exit(1)
	}
	logger.Info("worker_stopped", nil)
}
