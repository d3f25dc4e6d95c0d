package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

var latencyBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

type metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	classifications *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

// newMetrics uses its own registry so several APIs can live in one process.
func newMetrics(service string) *metrics {
	labels := prometheus.Labels{"service": service}
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration in seconds",
				Buckets:     latencyBuckets,
				ConstLabels: labels,
			},
			[]string{"method", "path", "status_code"},
		),
		classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "feedback_classifications_total",
				Help:        "Total classified feedback texts",
				ConstLabels: labels,
			},
			[]string{"classification", "sentiment"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name:        "http_requests_in_flight",
				Help:        "Requests currently being served",
				ConstLabels: labels,
			},
		),
	}
	m.registry.MustRegister(m.requestDuration, m.classifications, m.inFlight)

	return m
}
