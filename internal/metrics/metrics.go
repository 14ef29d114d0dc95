package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the planning pipeline.
type Metrics struct {
	Requests           *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	Degraded           *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers the collectors with reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fitness_planner_requests_total",
			Help: "Pipeline requests by kind and outcome",
		}, []string{"kind", "outcome"}),

		GenerationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitness_planner_generation_duration_seconds",
			Help:    "Time spent waiting on the generation model",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}, []string{"kind"}),

		Degraded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fitness_planner_degraded_total",
			Help: "Generated plans returned without being stored",
		}, []string{"kind"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitness_planner_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// Outcome labels.
const (
	OutcomeOK              = "ok"
	OutcomeDegraded        = "degraded"
	OutcomeUnauthenticated = "unauthenticated"
	OutcomeInvalid         = "invalid"
	OutcomeGeneration      = "generation_error"
	OutcomeStorage         = "storage_error"
)
