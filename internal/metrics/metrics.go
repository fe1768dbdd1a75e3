// Package metrics holds the Prometheus collectors for batch propagation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	propagationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbitcore_propagations_total",
			Help: "Total number of propagation calls by outcome.",
		},
		[]string{"outcome"},
	)

	batchDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orbitcore_batch_duration_seconds",
			Help:    "Wall-clock duration of one batch propagation.",
			Buckets: prometheus.DefBuckets,
		},
	)

	batchSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orbitcore_batch_size",
			Help: "Number of records in the most recent batch.",
		},
	)
)

func init() {
	prometheus.MustRegister(propagationsTotal)
	prometheus.MustRegister(batchDurationSeconds)
	prometheus.MustRegister(batchSize)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordPropagation counts one propagation call. outcome is "ok" or the
// error-code string of the typed propagation failure.
func RecordPropagation(outcome string) {
	propagationsTotal.WithLabelValues(outcome).Inc()
}

// RecordBatch records the duration and size of one finished batch.
func RecordBatch(d time.Duration, size int) {
	batchDurationSeconds.Observe(d.Seconds())
	batchSize.Set(float64(size))
}
