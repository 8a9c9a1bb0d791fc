package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincast_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fincast_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincast_predictions_total",
			Help: "Total prediction requests",
		},
		[]string{"status"}, // "success" or "error"
	)

	EntitiesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincast_entities_created_total",
			Help: "Total entities created",
		},
		[]string{"collection"},
	)

	EntitiesDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincast_entities_deleted_total",
			Help: "Total entities deleted",
		},
		[]string{"collection"},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fincast_messages_sent_total",
			Help: "Total chat messages sent",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fincast_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	// Infrastructure metrics
	UpstreamLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fincast_upstream_latency_seconds",
			Help:    "Prediction service call latency",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)
)
