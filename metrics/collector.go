package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wippyai/disposable/disposal"
	"github.com/wippyai/disposable/errors"
)

const (
	namespace = "disposable"
	subsystem = "tracker"
)

// Collector counts disposal events. It implements disposal.Observer.
type Collector struct {
	events      *prometheus.CounterVec
	violations  *prometheus.CounterVec
	outstanding prometheus.Gauge
}

// NewCollector creates a collector and registers its metrics with reg.
// A nil reg leaves the metrics unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_total",
			Help:      "Disposal state transitions by event type",
		}, []string{"event"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "violations_total",
			Help:      "Disposal protocol violations by kind",
		}, []string{"kind"}),
		outstanding: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "outstanding_retains",
			Help:      "Retains that have not been released or discarded by dispose",
		}),
	}
	if reg != nil {
		reg.MustRegister(c.events, c.violations, c.outstanding)
	}
	return c
}

// OnDisposalEvent records e.
func (c *Collector) OnDisposalEvent(e disposal.Event) {
	c.events.WithLabelValues(e.Type.String()).Inc()

	switch e.Type {
	case disposal.EventRetained:
		c.outstanding.Inc()
	case disposal.EventReleased:
		c.outstanding.Dec()
	case disposal.EventViolation:
		c.violations.WithLabelValues(string(e.Kind)).Inc()
		if e.Kind == errors.KindDisposeWithRetains {
			c.outstanding.Sub(float64(e.Count))
		}
	}
}
