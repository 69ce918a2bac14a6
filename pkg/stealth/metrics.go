package stealth

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Variants checked by any Scanner
	prometheusScannerVariants prometheus.Counter
	// Variants that turned out to belong to the scanning pair
	prometheusScannerOwned prometheus.Counter
	// Variants skipped or rejected because a point failed validation
	prometheusScannerInvalid prometheus.Counter
	// Wall time of a full Scan call
	prometheusScannerDuration prometheus.Histogram
)

var prometheusMetricsInitOnce sync.Once

// initPrometheusMetrics registers the scanner metrics with the default
// registry.  Registering twice panics, hence the sync.Once.
func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusScannerVariants = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "novakey",
			Subsystem: "stealth_scanner",
			Name:      "variants",
			Help:      "Number of stealth variants checked",
		},
	)

	prometheusScannerOwned = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "novakey",
			Subsystem: "stealth_scanner",
			Name:      "owned",
			Help:      "Number of stealth variants owned by the scanning pair",
		},
	)

	prometheusScannerInvalid = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "novakey",
			Subsystem: "stealth_scanner",
			Name:      "invalid",
			Help:      "Number of stealth variants that failed validation",
		},
	)

	prometheusScannerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "novakey",
			Subsystem: "stealth_scanner",
			Name:      "scan_duration_seconds",
			Help:      "Duration of a batch scan",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
	)
}
