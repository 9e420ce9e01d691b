package weather

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-insights/internal/metrics"
)

// Ingestor turns city names into validated, persisted readings.
type Ingestor struct {
	provider Provider
	store    Store
	logger   *zap.Logger
}

// NewIngestor creates a new Ingestor. The provider credential is expected to be
// checked by the caller once per process (see config.AppConfig.RequireProvider).
func NewIngestor(provider Provider, store Store, logger *zap.Logger) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingestor{
		provider: provider,
		store:    store,
		logger:   logger,
	}
}

// FetchAndStore fetches current conditions for city and appends them to the store.
//
// A fetch failure returns a nil reading and an error wrapping ErrNetwork. Once a
// reading has been fetched it is always returned; if the store write fails the
// error (wrapping ErrStorage) is returned alongside it.
func (i *Ingestor) FetchAndStore(ctx context.Context, city string) (*Reading, error) {
	start := time.Now()
	r, err := i.provider.Fetch(ctx, city)
	if err != nil {
		metrics.ObserveFetch(i.provider.Name(), metrics.ResultError, time.Since(start))
		i.logger.Warn("weather fetch failed",
			zap.String("provider", i.provider.Name()),
			zap.String("city", city),
			zap.Error(err))
		return nil, err
	}
	metrics.ObserveFetch(i.provider.Name(), metrics.ResultSuccess, time.Since(start))

	if err := i.store.Append(ctx, r); err != nil {
		metrics.IncStoreWrite(metrics.ResultError)
		i.logger.Error("failed to store reading",
			zap.String("city", r.CityName),
			zap.Error(err))
		return &r, err
	}
	metrics.IncStoreWrite(metrics.ResultSuccess)

	i.logger.Info("reading stored",
		zap.String("city", r.CityName),
		zap.Int("temperature", r.Temperature),
		zap.Int("humidity", r.Humidity),
		zap.String("description", r.Description))
	return &r, nil
}

// CityError is the reason one requested city produced no stored reading.
type CityError struct {
	City string
	Err  error
}

func (e CityError) Error() string {
	return e.City + ": " + e.Err.Error()
}

func (e CityError) Unwrap() error {
	return e.Err
}

// BatchResult summarizes one IngestAll run.
type BatchResult struct {
	Readings []Reading
	// Failed lists failures in request order; a city requested twice may appear twice.
	Failed []CityError
	stored int
}

// Stored reports how many readings were both fetched and persisted.
func (b BatchResult) Stored() int {
	return b.stored
}

// IngestAll processes cities one after another. A failing city never aborts the rest.
func (i *Ingestor) IngestAll(ctx context.Context, cities []string) BatchResult {
	var res BatchResult

	for _, city := range cities {
		city = strings.TrimSpace(city)
		if city == "" {
			continue
		}

		r, err := i.FetchAndStore(ctx, city)
		if r != nil {
			res.Readings = append(res.Readings, *r)
		}
		if err != nil {
			res.Failed = append(res.Failed, CityError{City: city, Err: err})
			continue
		}
		res.stored++
	}

	i.logger.Info("ingestion batch completed",
		zap.Int("cities", len(cities)),
		zap.Int("fetched", len(res.Readings)),
		zap.Int("stored", res.Stored()),
		zap.Int("failed", len(res.Failed)))
	return res
}
