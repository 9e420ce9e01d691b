package analysis

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-insights/internal/weather"
)

type recordingSnapshotter struct {
	tables []Table
	err    error
}

func (s *recordingSnapshotter) Write(t Table) (string, error) {
	s.tables = append(s.tables, t)
	if s.err != nil {
		return "", s.err
	}
	return "snapshot.parquet", nil
}

func TestAggregatorPrepareWritesSnapshot(t *testing.T) {
	snap := &recordingSnapshotter{}
	agg := NewAggregator(time.UTC, snap, nil)

	table, stats := agg.Prepare([]weather.Record{
		rec("A", 10, 50, "clear", t0),
		rec("A", 10, 150, "clear", t0),
	})

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, 1, stats.DroppedHumidity)
	require.Len(t, snap.tables, 1)
	assert.Equal(t, 1, snap.tables[0].Len())
}

func TestAggregatorPrepareIgnoresSnapshotFailure(t *testing.T) {
	snap := &recordingSnapshotter{err: errors.New("disk full")}
	agg := NewAggregator(time.UTC, snap, nil)

	table, _ := agg.Prepare([]weather.Record{rec("A", 10, 50, "clear", t0)})
	assert.Equal(t, 1, table.Len())
}

func TestAggregatorSummarize(t *testing.T) {
	agg := NewAggregator(time.UTC, nil, nil)

	empty := agg.Summarize(Table{}, CleanStats{})
	assert.Empty(t, empty.Averages)
	assert.Nil(t, empty.Extremes)
	assert.Nil(t, empty.Dominant)

	table, stats := agg.Prepare([]weather.Record{
		rec("A", 10, 50, "clear", t0),
		rec("B", 35, 20, "clear", t0.Add(time.Hour)),
	})
	s := agg.Summarize(table, stats)
	require.NotNil(t, s.Extremes)
	require.NotNil(t, s.Dominant)
	assert.Equal(t, "B", s.Extremes.Temperature.City)
	assert.Equal(t, Condition{Description: "clear", Count: 2}, *s.Dominant)
	assert.Equal(t, "UTC", s.Location)
}
