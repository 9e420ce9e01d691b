package analysis

import (
	"time"

	"go.uber.org/zap"

	"github.com/i474232898/weather-insights/internal/metrics"
	"github.com/i474232898/weather-insights/internal/weather"
)

// Snapshotter persists a cleaned table for audit or replay and returns where it went.
type Snapshotter interface {
	Write(t Table) (string, error)
}

// Summary bundles every statistic a report needs.
type Summary struct {
	Averages  map[string]CityAverage `json:"averages"`
	Extremes  *Extremes              `json:"extremes,omitempty"`
	Dominant  *Condition             `json:"dominantCondition,omitempty"`
	Stats     CleanStats             `json:"clean"`
	Location  string                 `json:"timezone"`
	Generated time.Time              `json:"generatedAt"`
}

// Aggregator cleans raw records and computes report statistics.
type Aggregator struct {
	loc         *time.Location
	snapshotter Snapshotter
	logger      *zap.Logger
}

// NewAggregator creates an Aggregator reporting in loc. snapshotter may be nil.
func NewAggregator(loc *time.Location, snapshotter Snapshotter, logger *zap.Logger) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{loc: loc, snapshotter: snapshotter, logger: logger}
}

// Location is the reporting timezone.
func (a *Aggregator) Location() *time.Location {
	return a.loc
}

// Prepare cleans records and writes the snapshot. A snapshot failure is logged
// and does not affect the returned table.
func (a *Aggregator) Prepare(records []weather.Record) (Table, CleanStats) {
	t, stats := Clean(records, a.loc)

	metrics.AddCleanKept(stats.Kept)
	metrics.AddCleanDropped("missing", stats.DroppedMissing)
	metrics.AddCleanDropped("temperature", stats.DroppedTemperature)
	metrics.AddCleanDropped("humidity", stats.DroppedHumidity)

	if stats.Dropped() > 0 {
		a.logger.Warn("rows discarded during cleaning",
			zap.Int("input", stats.Input),
			zap.Int("missing", stats.DroppedMissing),
			zap.Int("temperature_out_of_range", stats.DroppedTemperature),
			zap.Int("humidity_out_of_range", stats.DroppedHumidity))
	}

	if a.snapshotter != nil {
		path, err := a.snapshotter.Write(t)
		if err != nil {
			metrics.IncReportArtifact("snapshot", metrics.ResultError)
			a.logger.Warn("snapshot write failed", zap.Error(err))
		} else {
			metrics.IncReportArtifact("snapshot", metrics.ResultSuccess)
			a.logger.Info("snapshot written", zap.String("path", path))
		}
	}

	return t, stats
}

// Summarize computes averages, extremes and the dominant condition.
// Extremes and Dominant stay nil for an empty table.
func (a *Aggregator) Summarize(t Table, stats CleanStats) Summary {
	s := Summary{
		Averages:  WeeklyAverages(t),
		Stats:     stats,
		Location:  a.loc.String(),
		Generated: time.Now().In(a.loc),
	}
	if !t.Empty() {
		if ex, err := FindExtremes(t); err == nil {
			s.Extremes = &ex
		}
	}
	if c, ok := DominantCondition(t); ok {
		s.Dominant = &c
	}
	return s
}
