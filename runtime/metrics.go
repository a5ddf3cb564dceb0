// Package runtime implements the event loop (spec §4.5): dirty-set FIFO
// propagation to quiescence, inbox staging, timer scheduling, the
// side-effect queue, and orphan-HOLD garbage collection.
package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus collectors for the event loop, grounded on
// _examples/bittoy-rule/engine/metrics.go's namespace/subsystem
// convention. Registration happens lazily in NewEventLoop, guarded by the
// plain (unsynchronised) metricsRegistered flag, so building an EventLoop
// with MetricsEnabled=false never touches the default registry and loops
// built one after another in the same process don't double-register.
var (
	ticksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "boon",
			Subsystem: "runtime",
			Name:      "ticks_total",
			Help:      "Total dataflow propagation ticks processed.",
		},
	)

	tickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "boon",
			Subsystem: "runtime",
			Name:      "tick_duration_seconds",
			Help:      "Time spent in one run-to-quiescence pass.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	dirtyQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "boon",
			Subsystem: "runtime",
			Name:      "dirty_queue_depth",
			Help:      "Size of the dirty-slot queue at the end of the last drain.",
		},
	)

	holdsCollected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "boon",
			Subsystem: "runtime",
			Name:      "holds_collected_total",
			Help:      "Orphaned HOLD cells garbage-collected.",
		},
	)
)

var metricsRegistered = false

func registerMetrics() {
	if metricsRegistered {
		return
	}
	prometheus.MustRegister(ticksTotal, tickDuration, dirtyQueueDepth, holdsCollected)
	metricsRegistered = true
}
