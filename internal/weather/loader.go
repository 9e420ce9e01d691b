package weather

import (
	"context"
	"fmt"
)

// WindowLoader reads the trailing window from a Store without applying any policy.
type WindowLoader struct {
	store Store
}

// NewWindowLoader creates a new WindowLoader.
func NewWindowLoader(store Store) *WindowLoader {
	return &WindowLoader{store: store}
}

// Load returns every record observed in [now - days, now], oldest first.
func (l *WindowLoader) Load(ctx context.Context, days int) ([]Record, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be greater than zero, got %d", days)
	}
	return l.store.QueryTrailing(ctx, days)
}
