package aspect

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BoonLang/boon-sub002/graph"
	"github.com/BoonLang/boon-sub002/types"
	"github.com/BoonLang/boon-sub002/value"
)

var evalsByKind = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "boon",
		Subsystem: "kinds",
		Name:      "evaluations_total",
		Help:      "Node evaluations by kind type.",
	},
	[]string{"kind"},
)

var registerOnce sync.Once

// MetricsAspect counts evaluations per KindType, grounded on
// _examples/bittoy-rule/engine/metrics.go's CounterVec-per-label pattern.
type MetricsAspect struct{}

// NewMetricsAspect registers its collector with the default Prometheus
// registry exactly once.
func NewMetricsAspect() *MetricsAspect {
	registerOnce.Do(func() { prometheus.MustRegister(evalsByKind) })
	return &MetricsAspect{}
}

func (m *MetricsAspect) Order() int { return 0 }

func (m *MetricsAspect) After(slot graph.SlotId, port graph.Port, kind types.Kind, result value.Value, err error) {
	evalsByKind.WithLabelValues(string(kind.Type())).Inc()
}

var _ NodeAfterAspect = (*MetricsAspect)(nil)
