package web

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type httpMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	if reg == nil {
		return nil
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "unifind_http_requests_total",
		Help: "Page and form requests by route pattern and status",
	}, []string{"pattern", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "unifind_http_request_duration_seconds",
		Help:    "Page and form request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"pattern"})

	reg.MustRegister(requests, duration)
	return &httpMetrics{requests: requests, duration: duration}
}

func (m *httpMetrics) observe(pattern string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(pattern, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(pattern).Observe(d.Seconds())
}
