// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyroutine_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dailyroutine_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dailyroutine_http_rate_limited_total",
			Help: "Total number of requests rejected by the auth rate limiter",
		},
	)

	// Background work
	ActivityWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dailyroutine_activity_write_failures_total",
			Help: "Total number of activity feed entries that could not be stored",
		},
	)

	MailFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyroutine_mail_failures_total",
			Help: "Total number of emails that could not be sent, by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(RateLimited)
	prometheus.MustRegister(ActivityWriteFailures)
	prometheus.MustRegister(MailFailures)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures one operation for a histogram.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDurationVec records the elapsed seconds under the given labels.
func (t *Timer) ObserveDurationVec(h *prometheus.HistogramVec, labels ...string) {
	h.WithLabelValues(labels...).Observe(t.Duration().Seconds())
}
