package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/i474232898/weather-insights/internal/app"
	"github.com/i474232898/weather-insights/internal/config"
	"github.com/i474232898/weather-insights/internal/logging"
)

// weather-report prints the summary of the trailing window and writes the
// chart, workbook, PDF and snapshot files to REPORT_OUTPUT_DIR.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	st, closeStore, err := app.NewStore(cfg)
	if err != nil {
		logger.Fatal("store not configured", zap.Error(err))
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.NewReportRunner(cfg, st, logger).Run(ctx, cfg.ReportDays)
}
