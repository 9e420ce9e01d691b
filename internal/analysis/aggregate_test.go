package analysis

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-insights/internal/weather"
)

var t0 = time.Date(2026, 10, 12, 6, 0, 0, 0, time.UTC)

func reading(city string, temp, humidity int, desc string, at time.Time) weather.Reading {
	return weather.Reading{CityName: city, Temperature: temp, Humidity: humidity, Description: desc, ObservedAt: at}
}

func TestWeeklyAverages(t *testing.T) {
	table := NewTable([]weather.Reading{
		reading("A", 10, 40, "clear", t0),
		reading("A", 20, 50, "clear", t0.Add(time.Hour)),
		reading("A", 30, 61, "rain", t0.Add(2*time.Hour)),
		reading("B", 7, 33, "mist", t0),
		reading("B", 8, 34, "mist", t0.Add(time.Hour)),
		reading("B", 8, 34, "mist", t0.Add(2*time.Hour)),
	})

	avg := WeeklyAverages(table)
	require.Len(t, avg, 2)
	assert.Equal(t, 20.00, avg["A"].Temperature)
	assert.Equal(t, 50.33, avg["A"].Humidity)
	assert.Equal(t, 3, avg["A"].Samples)
	assert.Equal(t, 7.67, avg["B"].Temperature)
	assert.Equal(t, 33.67, avg["B"].Humidity)
}

func TestWeeklyAveragesEmpty(t *testing.T) {
	assert.Empty(t, WeeklyAverages(Table{}))
}

func TestFindExtremes(t *testing.T) {
	peak := t0.Add(3 * time.Hour)
	table := NewTable([]weather.Reading{
		reading("A", 30, 95, "rain", t0),
		reading("B", 35, 40, "clear", peak),
		reading("C", 12, 95, "fog", t0.Add(time.Hour)),
	})

	ex, err := FindExtremes(table)
	require.NoError(t, err)
	assert.Equal(t, Extreme{City: "B", Value: 35, ObservedAt: peak}, ex.Temperature)
	// First row reaching the maximum wins.
	assert.Equal(t, Extreme{City: "A", Value: 95, ObservedAt: t0}, ex.Humidity)
}

func TestFindExtremesEmpty(t *testing.T) {
	_, err := FindExtremes(Table{})
	assert.True(t, errors.Is(err, weather.ErrEmptyInput))
}

func TestDominantCondition(t *testing.T) {
	table := NewTable([]weather.Reading{
		reading("A", 1, 1, "clear", t0),
		reading("A", 1, 1, "rain", t0),
		reading("A", 1, 1, "clear", t0),
	})

	c, ok := DominantCondition(table)
	require.True(t, ok)
	assert.Equal(t, Condition{Description: "clear", Count: 2}, c)
}

func TestDominantConditionTieAndEmpty(t *testing.T) {
	_, ok := DominantCondition(Table{})
	assert.False(t, ok)

	tie := NewTable([]weather.Reading{
		reading("A", 1, 1, "rain", t0),
		reading("A", 1, 1, "", t0),
		reading("A", 1, 1, "", t0),
		reading("A", 1, 1, "clear", t0),
	})
	c, ok := DominantCondition(tie)
	require.True(t, ok)
	assert.Equal(t, Condition{Description: "rain", Count: 1}, c)
}

func TestTableGroupByAndFilter(t *testing.T) {
	table := NewTable([]weather.Reading{
		reading("Tokyo", 20, 50, "clear", t0),
		reading("Cairo", 35, 10, "clear", t0),
		reading("Tokyo", 22, 55, "rain", t0.Add(time.Hour)),
	})

	groups := table.GroupBy(ByCity)
	require.Len(t, groups, 2)
	assert.Equal(t, []int{20, 22}, groups["Tokyo"].Temperatures())
	assert.Equal(t, []string{"Tokyo", "Cairo"}, table.Cities())

	hot := table.Filter(func(r weather.Reading) bool { return r.Temperature > 21 })
	assert.Equal(t, []string{"Cairo", "Tokyo"}, hot.Cities())
	assert.Equal(t, 3, table.Len(), "filter does not mutate the source")
}

func rec(city string, temp, humidity int64, desc string, at time.Time) weather.Record {
	return weather.Record{
		CityName:    sql.NullString{String: city, Valid: true},
		Temperature: sql.NullInt64{Int64: temp, Valid: true},
		Humidity:    sql.NullInt64{Int64: humidity, Valid: true},
		Description: sql.NullString{String: desc, Valid: true},
		ObservedAt:  sql.NullTime{Time: at, Valid: true},
	}
}

func TestCleanDropsInvalidRows(t *testing.T) {
	missingHumidity := rec("A", 10, 0, "clear", t0)
	missingHumidity.Humidity.Valid = false
	missingTime := rec("A", 10, 10, "clear", t0)
	missingTime.ObservedAt.Valid = false
	noDescription := rec("A", 10, 10, "", t0)
	noDescription.Description.Valid = false

	records := []weather.Record{
		rec("A", 10, 50, "clear", t0),
		rec("", 10, 50, "clear", t0),
		missingHumidity,
		missingTime,
		rec("A", -100, 50, "cold", t0),
		rec("A", 80, 50, "hot", t0),
		rec("A", 79, 50, "hot", t0),
		rec("A", -99, 50, "cold", t0),
		rec("A", 10, -1, "dry", t0),
		rec("A", 10, 101, "wet", t0),
		rec("A", 10, 0, "dry", t0),
		rec("A", 10, 100, "wet", t0),
		noDescription,
	}

	table, stats := Clean(records, time.UTC)

	assert.Equal(t, CleanStats{
		Input:              13,
		Kept:               6,
		DroppedMissing:     3,
		DroppedTemperature: 2,
		DroppedHumidity:    2,
	}, stats)
	assert.Equal(t, 7, stats.Dropped())

	for _, r := range table.Rows() {
		assert.Greater(t, r.Temperature, MinTemperature)
		assert.Less(t, r.Temperature, MaxTemperature)
		assert.GreaterOrEqual(t, r.Humidity, MinHumidity)
		assert.LessOrEqual(t, r.Humidity, MaxHumidity)
	}
}

func TestCleanConvertsTimezone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2026, 10, 12, 8, 0, 0, 0, plus2)

	table, _ := Clean([]weather.Record{rec("A", 10, 50, "clear", at)}, kolkata)
	require.Equal(t, 1, table.Len())

	got := table.Times()[0]
	assert.Equal(t, kolkata, got.Location())
	assert.True(t, got.Equal(at))
	assert.Equal(t, 11, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestCleanAllDroppedIsEmptyTable(t *testing.T) {
	table, stats := Clean([]weather.Record{rec("A", 200, 50, "x", t0)}, nil)
	assert.True(t, table.Empty())
	assert.Equal(t, 1, stats.DroppedTemperature)
}
