package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	ops    *prometheus.CounterVec
	errors *prometheus.CounterVec
}

// newMetrics 在 reg 上注册指标；reg 为 nil 时指标不注册。
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "convergent",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Snapshot store operations by kind and CRDT type.",
		}, []string{"op", "type"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "convergent",
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Failed snapshot store operations by kind.",
		}, []string{"op"}),
	}
}

func (m *metrics) observe(op string, t string, err error) {
	if err != nil {
		m.errors.WithLabelValues(op).Inc()
		return
	}
	m.ops.WithLabelValues(op, t).Inc()
}
