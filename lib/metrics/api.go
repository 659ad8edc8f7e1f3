package metrics

import (
	"strconv"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

type APIMetrics struct {
	RequestsTotal          metrics.Counter
	RequestErrorsTotal     metrics.Counter
	RequestDurationSeconds metrics.Histogram
	RateLimitedTotal       metrics.Counter
}

// Observe counts one request; statuses from 400 up also count as errors.
func (m *APIMetrics) Observe(endpoint, method string, status int, elapsed time.Duration) {
	lvs := []string{"endpoint", endpoint, "method", method, "status", strconv.Itoa(status)}

	m.RequestsTotal.With(lvs...).Add(1)
	if status >= 400 {
		m.RequestErrorsTotal.With(lvs...).Add(1)
	}
	m.RequestDurationSeconds.With(lvs...).Observe(elapsed.Seconds())
}

// AddRateLimited counts a request refused by the rate limiter, labeled by
// route template rather than client address.
func (m *APIMetrics) AddRateLimited(path string) {
	m.RateLimitedTotal.With("path", path).Add(1)
}

func PromAPIMetrics() *APIMetrics {
	return &APIMetrics{
		RequestsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "requests_total",
			Help:      "Total number of requests.",
		}, []string{"endpoint", "method", "status"}),
		RequestErrorsTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_errors_total",
			Help:      "Total number of request errors",
		}, []string{"endpoint", "method", "status"}),
		RequestDurationSeconds: prometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "request_duration_seconds",
			Help:      "Request latency in seconds.",
		}, []string{"endpoint", "method", "status"}),
		RateLimitedTotal: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: APISubsystem,
			Name:      "rate_limited_total",
			Help:      "Requests refused with 429 by the rate limiter.",
		}, []string{"path"}),
	}
}

func NopAPIMetrics() *APIMetrics {
	return &APIMetrics{
		RequestsTotal:          discard.NewCounter(),
		RequestErrorsTotal:     discard.NewCounter(),
		RequestDurationSeconds: discard.NewHistogram(),
		RateLimitedTotal:       discard.NewCounter(),
	}
}
