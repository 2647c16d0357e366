package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the live server collectors. A nil *metrics records nothing.
type metrics struct {
	clients   prometheus.Gauge
	batches   prometheus.Counter
	dropped   prometheus.Counter
	wsErrors  *prometheus.CounterVec
	stateSets prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)

	return &metrics{
		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "reactor",
			Subsystem: "ws",
			Name:      "clients",
			Help:      "Number of connected WebSocket clients",
		}),
		batches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reactor",
			Subsystem: "ws",
			Name:      "batches_total",
			Help:      "Total number of mutation batches broadcast",
		}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reactor",
			Subsystem: "ws",
			Name:      "dropped_clients_total",
			Help:      "Clients disconnected because their send queue was full",
		}),
		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reactor",
			Subsystem: "ws",
			Name:      "errors_total",
			Help:      "Total WebSocket errors by type",
		}, []string{"type"}),
		stateSets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reactor",
			Name:      "state_writes_total",
			Help:      "Total number of state writes received by the server",
		}),
	}
}

func (m *metrics) clientAdded() {
	if m != nil {
		m.clients.Inc()
	}
}

func (m *metrics) clientRemoved() {
	if m != nil {
		m.clients.Dec()
	}
}

func (m *metrics) batch() {
	if m != nil {
		m.batches.Inc()
	}
}

func (m *metrics) droppedClient() {
	if m != nil {
		m.dropped.Inc()
	}
}

func (m *metrics) wsError(kind string) {
	if m != nil {
		m.wsErrors.WithLabelValues(kind).Inc()
	}
}

func (m *metrics) stateWrite() {
	if m != nil {
		m.stateSets.Inc()
	}
}
