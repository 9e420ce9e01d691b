package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/i474232898/weather-insights/internal/app"
	"github.com/i474232898/weather-insights/internal/config"
	"github.com/i474232898/weather-insights/internal/logging"
	"github.com/i474232898/weather-insights/internal/weather"
)

// weather-ingest [city words...]
//
// Without arguments every configured city is ingested. Arguments are joined
// with spaces into a single city name ("weather-ingest New York").
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

	provider, err := app.NewProvider(cfg)
	if err != nil {
		logger.Fatal("provider not configured", zap.Error(err))
	}
	st, closeStore, err := app.NewStore(cfg)
	if err != nil {
		logger.Fatal("store not configured", zap.Error(err))
	}
	defer closeStore()

	cities := cfg.Cities
	if args := os.Args[1:]; len(args) > 0 {
		cities = []string{strings.Join(args, " ")}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := st.EnsureSchema(ctx); err != nil {
		logger.Error("ensure schema failed", zap.Error(err))
	}

	res := weather.NewIngestor(provider, st, logger).IngestAll(ctx, cities)
	for _, r := range res.Readings {
		fmt.Printf("%s: %d°C, %d%% humidity, %s\n", r.CityName, r.Temperature, r.Humidity, r.Description)
	}
	for _, f := range res.Failed {
		fmt.Printf("%s: error, %v\n", f.City, f.Err)
	}
}
