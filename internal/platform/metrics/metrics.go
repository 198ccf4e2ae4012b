package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Provider agrupa las métricas del data provider.
type Provider struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewProvider registra las métricas en reg. Si reg es nil usa el registry default.
func NewProvider(reg prometheus.Registerer) *Provider {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vetpractice",
		Subsystem: "dataprovider",
		Name:      "requests_total",
		Help:      "Data provider operations by resource, action and outcome.",
	}, []string{"resource", "action", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vetpractice",
		Subsystem: "dataprovider",
		Name:      "request_duration_seconds",
		Help:      "Data provider operation latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource", "action"})

	reg.MustRegister(requests, duration)

	return &Provider{requests: requests, duration: duration}
}

// Observe registra una operación terminada.
func (p *Provider) Observe(resource, action string, started time.Time, err error) {
	if p == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	p.requests.WithLabelValues(resource, action, outcome).Inc()
	p.duration.WithLabelValues(resource, action).Observe(time.Since(started).Seconds())
}

// Requests expone el counter (tests con testutil).
func (p *Provider) Requests() *prometheus.CounterVec {
	return p.requests
}
