package apiclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "social_web_api_requests_total",
		Help: "Outbound REST API calls by method and response code.",
	}, []string{"method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "social_web_api_request_duration_seconds",
		Help:    "Outbound REST API call latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// observe records one call; code 0 means no response was received.
func observe(method string, code int, started time.Time) {
	label := "error"
	if code != 0 {
		label = strconv.Itoa(code)
	}
	requestsTotal.WithLabelValues(method, label).Inc()
	requestDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
}
