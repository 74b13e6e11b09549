package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts handled requests by route pattern and status
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funil_backend_requests_total",
		Help: "Total backend requests by route and status",
	}, []string{"route", "status"})

	// requestDuration tracks handler latency by route pattern
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "funil_backend_request_duration_seconds",
		Help:    "Backend request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// movesTotal counts move requests by outcome
	movesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funil_backend_moves_total",
		Help: "Opportunity moves by outcome",
	}, []string{"outcome"})
)

// instrument records request count and latency per chi route pattern
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
