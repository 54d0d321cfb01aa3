// Package metrics chứa các collector Prometheus xuất ra ở /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label không chứa id VOD, id user hay path gốc
var (
	// VODMutationsTotal đếm số lần insert/delete theo kết quả
	VODMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vod_dashboard",
		Name:      "vod_mutations_total",
		Help:      "Total number of VOD mutations, by operation and outcome.",
	}, []string{"operation", "outcome"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vod_dashboard",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route template and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vod_dashboard",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by method and route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vod_dashboard",
		Name:      "ratelimit_rejections_total",
		Help:      "Requests rejected by the per-IP limiter, by route template.",
	}, []string{"route"})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "vod_dashboard",
		Name:      "websocket_clients",
		Help:      "Currently connected dashboard websocket clients.",
	})

	RevokedTokensPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vod_dashboard",
		Name:      "revoked_tokens_purged_total",
		Help:      "Expired revoked-token rows removed by the cleanup job.",
	})
)

// Handler phục vụ registry mặc định
func Handler() http.Handler {
	return promhttp.Handler()
}
