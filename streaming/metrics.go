package streaming

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	LabelSource = "source"
	LabelNode   = "node"
)

// Metrics records engine activity as Prometheus collectors.
type Metrics struct {
	sourceValues *prometheus.CounterVec
	emissions    *prometheus.CounterVec
	errors       *prometheus.CounterVec
	propagation  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// uses a fresh private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		sourceValues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tributary_source_values_total",
			Help: "Values pulled from each source",
		}, []string{LabelSource}),
		emissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tributary_node_emissions_total",
			Help: "Values emitted by each node",
		}, []string{LabelNode}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tributary_node_errors_total",
			Help: "Compute errors raised by each node",
		}, []string{LabelNode}),
		propagation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tributary_propagation_seconds",
			Help:    "Time to push one source value through the graph",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.sourceValues, m.emissions, m.errors, m.propagation)
	return m
}

func (m *Metrics) observeSource(name string) {
	if m != nil {
		m.sourceValues.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) observeEmission(name string) {
	if m != nil {
		m.emissions.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) observeError(name string) {
	if m != nil {
		m.errors.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) observePropagation(d time.Duration) {
	if m != nil {
		m.propagation.Observe(d.Seconds())
	}
}
