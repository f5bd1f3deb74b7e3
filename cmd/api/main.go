package main

import (
	"context"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/config"
	handlers "github.com/aalmeenuiii/gst-harmony-recon-10/internal/http/handler"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/http/middleware"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/logging"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/otel"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/recon"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/repository/inmemory"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/service"
	"github.com/aalmeenuiii/gst-harmony-recon-10/internal/storage"
)

func main() {
	log := logging.New()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	// Tracing is optional; Init degrades to a noop provider on exporter errors.
	shutdownTracing, err := otel.Init(context.Background(), log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.WithError(err).Warn("tracing shutdown failed")
		}
	}()

	// S3-compatible object storage holds the uploaded batch originals.
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize object storage")
	}

	// Batches and reports are kept in process memory; the storage layer keeps
	// the original bytes so cleaned batches can always be re-derived.
	batchRepo := inmemory.NewBatchInMemory()
	reportRepo := inmemory.NewReportInMemory()

	defaultTol := recon.Tolerance{
		Amount:   cfg.Recon.AmountTolerance,
		Percent:  cfg.Recon.PercentTolerance,
		DateDays: cfg.Recon.DateToleranceDays,
	}

	batchSvc := service.NewBatchService(objStore, batchRepo, cfg.Upload.MaxBytes, log)
	reconSvc := service.NewReconService(batchRepo, reportRepo, defaultTol, log)

	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.Upload.MaxBytes) + 1024,
		ErrorHandler: handlers.ErrorHandler(),
	})

	// RequestID adds/propagates X-Request-ID and stores it in context.
	app.Use(middleware.RequestID())
	// JSON logger for structured request logs.
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.WithError(err).Fatal("failed to register metrics")
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, batchSvc, reconSvc)

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
