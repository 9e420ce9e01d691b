package analysis

import (
	"time"

	"github.com/i474232898/weather-insights/internal/weather"
)

// Plausibility bounds applied during cleaning.
const (
	MinTemperature = -100 // exclusive
	MaxTemperature = 80   // exclusive
	MinHumidity    = 0    // inclusive
	MaxHumidity    = 100  // inclusive
)

// CleanStats counts what cleaning discarded, by reason.
type CleanStats struct {
	Input              int `json:"input"`
	Kept               int `json:"kept"`
	DroppedMissing     int `json:"droppedMissing"`
	DroppedTemperature int `json:"droppedTemperature"`
	DroppedHumidity    int `json:"droppedHumidity"`
}

// Dropped is the total number of discarded rows.
func (s CleanStats) Dropped() int {
	return s.DroppedMissing + s.DroppedTemperature + s.DroppedHumidity
}

// Clean narrows raw records to plausible readings and moves timestamps into loc.
// It never fails; dropping every row yields a valid empty table.
func Clean(records []weather.Record, loc *time.Location) (Table, CleanStats) {
	if loc == nil {
		loc = time.UTC
	}
	stats := CleanStats{Input: len(records)}

	rows := make([]weather.Reading, 0, len(records))
	for _, rec := range records {
		if !complete(rec) {
			stats.DroppedMissing++
			continue
		}
		rows = append(rows, weather.Reading{
			CityName:    rec.CityName.String,
			Temperature: int(rec.Temperature.Int64),
			Humidity:    int(rec.Humidity.Int64),
			Description: rec.Description.String,
			ObservedAt:  rec.ObservedAt.Time,
		})
	}
	t := Table{rows: rows}

	before := t.Len()
	t = t.Filter(PlausibleTemperature)
	stats.DroppedTemperature = before - t.Len()

	before = t.Len()
	t = t.Filter(PlausibleHumidity)
	stats.DroppedHumidity = before - t.Len()

	t = t.Map(func(r weather.Reading) weather.Reading {
		r.ObservedAt = r.ObservedAt.UTC().In(loc)
		return r
	})

	stats.Kept = t.Len()
	return t, stats
}

// complete reports whether every column required for aggregation is present.
// Description is optional.
func complete(rec weather.Record) bool {
	return rec.CityName.Valid && rec.CityName.String != "" &&
		rec.Temperature.Valid &&
		rec.Humidity.Valid &&
		rec.ObservedAt.Valid && !rec.ObservedAt.Time.IsZero()
}

func PlausibleTemperature(r weather.Reading) bool {
	return r.Temperature > MinTemperature && r.Temperature < MaxTemperature
}

func PlausibleHumidity(r weather.Reading) bool {
	return r.Humidity >= MinHumidity && r.Humidity <= MaxHumidity
}
