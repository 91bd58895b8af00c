package api

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sortie_api_requests_total",
		Help: "Game server requests by endpoint and outcome",
	}, []string{
		"endpoint",
		"result", // ok|rejected|bad_response|connection
	})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sortie_api_request_duration_seconds",
		Help:    "Game server request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func resultClass(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrConnection):
		return "connection"
	default:
		return "bad_response"
	}
}

func observeRequest(endpoint string, err error, elapsed time.Duration) {
	requestsTotal.WithLabelValues(endpoint, resultClass(err)).Inc()
	requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
