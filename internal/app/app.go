// Package app wires configuration into the concrete components shared by the
// binaries.
package app

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/i474232898/weather-insights/internal/analysis"
	"github.com/i474232898/weather-insights/internal/archive"
	"github.com/i474232898/weather-insights/internal/config"
	"github.com/i474232898/weather-insights/internal/report"
	"github.com/i474232898/weather-insights/internal/store"
	"github.com/i474232898/weather-insights/internal/weather"
	"github.com/i474232898/weather-insights/internal/weather/providers"
)

// NewProvider builds the provider selected by cfg.Provider. It fails with
// weather.ErrConfiguration before any network call when the key is missing.
func NewProvider(cfg *config.AppConfig) (weather.Provider, error) {
	if err := cfg.RequireProvider(); err != nil {
		return nil, err
	}

	// Shared HTTP client for outbound provider calls.
	client := &http.Client{Timeout: cfg.HTTPTimeout}
	opts := []providers.Option{providers.WithTimeout(cfg.HTTPTimeout)}

	switch cfg.Provider {
	case config.ProviderWeatherAPI:
		return providers.NewWeatherAPIProvider(client, cfg.WeatherAPIKey, opts...), nil
	default:
		opts = append(opts, providers.WithBaseURL(cfg.OpenWeatherBaseURL))
		return providers.NewOpenWeatherProvider(client, cfg.OpenWeatherAPIKey, opts...), nil
	}
}

// NewStore opens the configured backend. The returned close func is never nil.
func NewStore(cfg *config.AppConfig) (weather.Store, func() error, error) {
	if err := cfg.RequireStore(); err != nil {
		return nil, nil, err
	}

	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemoryStore(), func() error { return nil }, nil
	default:
		pg, err := store.NewPostgresStore(store.PostgresConfig{
			Driver:       cfg.DBDriver,
			DSN:          cfg.DSN(),
			MaxOpenConns: cfg.DBMaxOpenConns,
			MaxIdleConns: cfg.DBMaxIdleConns,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open store: %w", err)
		}
		return pg, pg.Close, nil
	}
}

// NewReportRunner assembles the aggregator, snapshot archive and reporter
// around st.
func NewReportRunner(cfg *config.AppConfig, st weather.Store, logger *zap.Logger) *report.Runner {
	snapshots := archive.NewParquetSnapshotter(cfg.ReportOutputDir, cfg.ReportLocation)
	aggregator := analysis.NewAggregator(cfg.ReportLocation, snapshots, logger)
	reporter := report.NewReporter(report.Config{
		OutputDir: cfg.ReportOutputDir,
		Days:      cfg.ReportDays,
		Location:  cfg.ReportLocation,
	}, logger)
	return report.NewRunner(st, aggregator, reporter, nil, logger)
}
