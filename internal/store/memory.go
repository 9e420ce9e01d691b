package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-insights/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// Records are kept in insertion order, which is also observed_at order unless a
// caller supplies explicit timestamps out of order.
type MemoryStore struct {
	mu sync.RWMutex

	records []weather.Record
	nextID  int64

	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for default timestamps and trailing windows.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// EnsureSchema is a no-op; the in-memory layout always exists.
func (s *MemoryStore) EnsureSchema(context.Context) error {
	return nil
}

// Append stores r, defaulting ObservedAt to the current time.
func (s *MemoryStore) Append(_ context.Context, r weather.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ObservedAt.IsZero() {
		r.ObservedAt = s.now()
	}
	// Same resolution as TIMESTAMPTZ.
	r.ObservedAt = r.ObservedAt.UTC().Truncate(time.Microsecond)

	s.records = append(s.records, weather.RecordFromReading(s.nextID, r))
	s.nextID++
	return nil
}

// AppendRecord stores a raw record as-is, nulls included. It exists for
// loading fixtures that the typed write path cannot express.
func (s *MemoryStore) AppendRecord(rec weather.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = s.nextID
	s.nextID++
	s.records = append(s.records, rec)
}

// QueryWindow returns records with observed_at in [start, end), oldest first.
func (s *MemoryStore) QueryWindow(_ context.Context, start, end time.Time) ([]weather.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []weather.Record
	for _, rec := range s.records {
		if !rec.ObservedAt.Valid {
			continue
		}
		ts := rec.ObservedAt.Time
		if (ts.Equal(start) || ts.After(start)) && ts.Before(end) {
			result = append(result, rec)
		}
	}
	sortRecords(result)
	return result, nil
}

// QueryTrailing returns records with observed_at in [now - days, now].
func (s *MemoryStore) QueryTrailing(ctx context.Context, days int) ([]weather.Record, error) {
	s.mu.RLock()
	now := s.now()
	s.mu.RUnlock()

	// The half-open window is widened by one nanosecond to include "now".
	return s.QueryWindow(ctx, now.AddDate(0, 0, -days), now.Add(time.Nanosecond))
}

func sortRecords(records []weather.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := records[i].ObservedAt.Time, records[j].ObservedAt.Time
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return records[i].ID < records[j].ID
	})
}
