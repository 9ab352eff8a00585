package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	rowsFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gomokubatch",
			Subsystem: "sampler",
			Name:      "rows_fetched_total",
			Help:      "Rows read from the store.",
		},
		[]string{"selector"},
	)
	fetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gomokubatch",
			Subsystem: "sampler",
			Name:      "fetch_errors_total",
			Help:      "Failed batch draws by cause.",
		},
		[]string{"selector", "cause"},
	)
	wraparounds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gomokubatch",
			Subsystem: "sampler",
			Name:      "wraparounds_total",
			Help:      "Batches that wrapped past the end of their partition.",
		},
		[]string{"selector"},
	)
	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gomokubatch",
			Subsystem: "sampler",
			Name:      "fetch_duration_seconds",
			Help:      "Time to count and fetch the rows of one batch.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"selector"},
	)
	examplesProduced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gomokubatch",
			Subsystem: "augment",
			Name:      "examples_total",
			Help:      "Training examples handed out.",
		},
		[]string{"selector", "augmented"},
	)
	partitionSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "gomokubatch",
			Subsystem: "sampler",
			Name:      "partition_rows",
			Help:      "Partition size seen by the last batch draw.",
		},
		[]string{"selector"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(rowsFetched, fetchErrors, wraparounds, fetchDuration,
			examplesProduced, partitionSize)
	})
}

func RecordFetch(selector string, size, rows int, wrapped bool, duration time.Duration) {
	RegisterMetrics()
	rowsFetched.WithLabelValues(selector).Add(float64(rows))
	partitionSize.WithLabelValues(selector).Set(float64(size))
	fetchDuration.WithLabelValues(selector).Observe(duration.Seconds())
	if wrapped {
		wraparounds.WithLabelValues(selector).Inc()
	}
}

func RecordFetchError(selector, cause string) {
	RegisterMetrics()
	fetchErrors.WithLabelValues(selector, cause).Inc()
}

func RecordExamples(selector string, augmented bool, n int) {
	RegisterMetrics()
	examplesProduced.WithLabelValues(selector, strconv.FormatBool(augmented)).Add(float64(n))
}
