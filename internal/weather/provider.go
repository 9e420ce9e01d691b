package weather

import (
	"context"
	"time"
)

// Provider abstracts the external current-conditions source (OpenWeatherMap, WeatherAPI).
// Fetch issues exactly one request; errors wrap ErrNetwork.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (Reading, error)
}

// Store is the contract the Postgres store (and the in-memory store) must satisfy.
// Every method acquires its own connection and releases it before returning.
type Store interface {
	EnsureSchema(ctx context.Context) error
	// Append stores r with ObservedAt truncated to the microsecond.
	Append(ctx context.Context, r Reading) error
	// QueryWindow returns records with observed_at in [start, end), oldest first.
	QueryWindow(ctx context.Context, start, end time.Time) ([]Record, error)
	// QueryTrailing returns records in [now - days, now], with "now" taken by the store.
	QueryTrailing(ctx context.Context, days int) ([]Record, error)
}
