package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpers(t *testing.T) {
	// Before Init every helper is a no-op.
	IncStoreWrite(ResultSuccess)
	AddCleanKept(3)

	reg := prometheus.NewRegistry()
	Init(reg)

	ObserveFetch("openweathermap", ResultError, 20*time.Millisecond)
	IncStoreWrite(ResultSuccess)
	IncStoreWrite(ResultSuccess)
	AddCleanDropped("humidity", 2)
	AddCleanDropped("temperature", 0)
	AddCleanKept(5)
	IncReportArtifact("static_chart", ResultSkipped)

	assert.Equal(t, 1.0, testutil.ToFloat64(fetchTotal.WithLabelValues("openweathermap", ResultError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(storeWrites.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(cleanDropped.WithLabelValues("humidity")))
	assert.Equal(t, 5.0, testutil.ToFloat64(cleanKept))
	assert.Equal(t, 1.0, testutil.ToFloat64(reportArtifacts.WithLabelValues("static_chart", ResultSkipped)))

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		assert.Contains(t, f.GetName(), metricPrefix)
	}
}
