package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's counters on a private registry, so several
// engines in one process (tests, the scenario harness) never collide.
type Metrics struct {
	registry   *prometheus.Registry
	turns      prometheus.Counter
	orders     prometheus.Counter
	results    *prometheus.CounterVec
	nodeVisits *prometheus.CounterVec
	duration   prometheus.Histogram
}

// NewMetrics creates and registers the engine metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_turns_total",
			Help: "Total number of turns played",
		}),
		orders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_orders_issued_total",
			Help: "Total number of orders issued",
		}),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_tick_results_total",
				Help: "Root results of tree ticks",
			},
			[]string{"result"},
		),
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_node_visits_total",
				Help: "Total number of node executions",
			},
			[]string{"node"},
		),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arbor_tick_duration_seconds",
			Help:    "Duration of tree ticks",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	m.registry.MustRegister(m.turns, m.orders, m.results, m.nodeVisits, m.duration)
	return m
}

// ObserveTurn records one decision cycle.
func (m *Metrics) ObserveTurn(result string, trace []string, orders int, elapsed time.Duration) {
	m.turns.Inc()
	m.orders.Add(float64(orders))
	m.results.WithLabelValues(result).Inc()
	for _, label := range trace {
		m.nodeVisits.WithLabelValues(label).Inc()
	}
	m.duration.Observe(elapsed.Seconds())
}

// Registry exposes the private registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format,
// for the node exporter's textfile collector. The file is replaced
// atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
