package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funil_gateway_requests_total",
		Help: "Backend requests by method and outcome (ok, rejected, transport)",
	}, []string{"method", "outcome"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "funil_gateway_request_duration_seconds",
		Help:    "Backend request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)
