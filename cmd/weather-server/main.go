package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-insights/internal/api/http"
	"github.com/i474232898/weather-insights/internal/analysis"
	"github.com/i474232898/weather-insights/internal/app"
	"github.com/i474232898/weather-insights/internal/config"
	"github.com/i474232898/weather-insights/internal/logging"
	"github.com/i474232898/weather-insights/internal/metrics"
	"github.com/i474232898/weather-insights/internal/scheduler"
	"github.com/i474232898/weather-insights/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	metrics.Init(nil)

	provider, err := app.NewProvider(cfg)
	if err != nil {
		log.Fatal("provider not configured", zap.Error(err))
	}
	st, closeStore, err := app.NewStore(cfg)
	if err != nil {
		log.Fatal("store not configured", zap.Error(err))
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := st.EnsureSchema(ctx); err != nil {
		log.Error("ensure schema failed", zap.Error(err))
	}

	ingestor := weather.NewIngestor(provider, st, log)

	sched := scheduler.New(scheduler.Config{
		Cities:        cfg.Cities,
		FetchInterval: cfg.FetchInterval,
		ReportCron:    cfg.ReportCron,
		ReportDays:    cfg.ReportDays,
		Location:      cfg.ReportLocation,
	}, ingestor, app.NewReportRunner(cfg, st, log), log)
	if err := sched.Start(ctx); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := fiber.New(fiber.Config{
		AppName:               "weather-insights",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	srv.Use(logger.New())
	srv.Use(recover.New())

	srv.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-insights",
		})
	})
	srv.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(srv, httpapi.Deps{
		Loader:     weather.NewWindowLoader(st),
		Aggregator: analysis.NewAggregator(cfg.ReportLocation, nil, log),
		Ingestor:   ingestor,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info("starting server", zap.String("address", addr))
		if err := srv.Listen(addr); err != nil {
			log.Error("fiber server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
}
