package web

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	simulations *prometheus.CounterVec
	errors      prometheus.Counter
	latency     prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	simulations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "implantsim_simulations_total",
		Help: "Simulations evaluated, by kind.",
	}, []string{"kind"})
	errs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "implantsim_simulation_errors_total",
		Help: "Simulation requests that failed validation or evaluation.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "implantsim_simulation_seconds",
		Help:    "Time spent evaluating a simulation.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	reg.MustRegister(simulations, errs, latency)

	return &Metrics{
		simulations: simulations,
		errors:      errs,
		latency:     latency,
	}
}

func (m *Metrics) observe(kind string, elapsed time.Duration) {
	m.simulations.WithLabelValues(kind).Inc()
	m.latency.Observe(elapsed.Seconds())
}

func (m *Metrics) fail() {
	m.errors.Inc()
}
