package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "weather_"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultSkipped = "skipped"
)

var (
	registerOnce sync.Once

	fetchTotal   *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec

	storeWrites *prometheus.CounterVec

	cleanDropped *prometheus.CounterVec
	cleanKept    prometheus.Counter

	reportArtifacts *prometheus.CounterVec
)

// Init registers the collectors with reg (prometheus.DefaultRegisterer when nil).
// Until Init runs every helper below is a no-op.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		fetchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "provider_fetch_total",
				Help: "Total provider fetches by provider and result",
			},
			[]string{"provider", "result"},
		)
		fetchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "provider_fetch_latency_seconds",
				Help:    "Provider fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "result"},
		)
		storeWrites = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_writes_total",
				Help: "Total reading inserts by result",
			},
			[]string{"result"},
		)
		cleanDropped = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "clean_dropped_rows_total",
				Help: "Rows discarded during cleaning by reason",
			},
			[]string{"reason"},
		)
		cleanKept = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "clean_kept_rows_total",
				Help: "Rows surviving cleaning",
			},
		)
		reportArtifacts = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_artifacts_total",
				Help: "Report artifacts by kind and result",
			},
			[]string{"kind", "result"},
		)

		reg.MustRegister(
			fetchTotal,
			fetchLatency,
			storeWrites,
			cleanDropped,
			cleanKept,
			reportArtifacts,
		)
	})
}

// ObserveFetch records one provider fetch.
func ObserveFetch(provider, result string, duration time.Duration) {
	if provider == "" {
		provider = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if fetchTotal != nil {
		fetchTotal.WithLabelValues(provider, result).Inc()
	}
	if fetchLatency != nil {
		fetchLatency.WithLabelValues(provider, result).Observe(duration.Seconds())
	}
}

// IncStoreWrite increments the insert counter.
func IncStoreWrite(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if storeWrites != nil {
		storeWrites.WithLabelValues(result).Inc()
	}
}

// AddCleanDropped adds count discarded rows for reason.
func AddCleanDropped(reason string, count int) {
	if count <= 0 {
		return
	}
	if cleanDropped != nil {
		cleanDropped.WithLabelValues(reason).Add(float64(count))
	}
}

// AddCleanKept adds count surviving rows.
func AddCleanKept(count int) {
	if count <= 0 {
		return
	}
	if cleanKept != nil {
		cleanKept.Add(float64(count))
	}
}

// IncReportArtifact counts one rendered (or skipped) report artifact.
func IncReportArtifact(kind, result string) {
	if result == "" {
		result = ResultSuccess
	}
	if reportArtifacts != nil {
		reportArtifacts.WithLabelValues(kind, result).Inc()
	}
}
