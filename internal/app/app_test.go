package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-insights/internal/config"
	"github.com/i474232898/weather-insights/internal/store"
	"github.com/i474232898/weather-insights/internal/weather"
)

func TestNewProvider(t *testing.T) {
	cfg := &config.AppConfig{Provider: config.ProviderOpenWeather, HTTPTimeout: time.Second}
	_, err := NewProvider(cfg)
	assert.ErrorIs(t, err, weather.ErrConfiguration)

	cfg.OpenWeatherAPIKey = "key"
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "openweathermap", p.Name())

	cfg.Provider = config.ProviderWeatherAPI
	cfg.WeatherAPIKey = "key"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "weatherapi", p.Name())
}

func TestNewStore(t *testing.T) {
	st, closeFn, err := NewStore(&config.AppConfig{StoreBackend: config.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, st)
	assert.NoError(t, closeFn())

	_, _, err = NewStore(&config.AppConfig{StoreBackend: config.BackendPostgres})
	assert.ErrorIs(t, err, weather.ErrConfiguration)

	// Opening does not connect, so an unreachable DSN still yields a store.
	st, closeFn, err = NewStore(&config.AppConfig{
		StoreBackend: config.BackendPostgres,
		DBDriver:     "pgx",
		DatabaseURL:  "postgres://weather@127.0.0.1:1/weather?sslmode=disable",
	})
	require.NoError(t, err)
	assert.IsType(t, &store.PostgresStore{}, st)
	assert.NoError(t, closeFn())
}
