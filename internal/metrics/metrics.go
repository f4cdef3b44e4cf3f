package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts API requests by operation and outcome
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reputation_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"operation", "outcome"},
	)

	// RateLimitRejections counts requests rejected by the rate limiter
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reputation_rate_limit_rejections_total",
			Help: "Total number of rate limited requests",
		},
	)

	// CheckVerdicts counts reputation check results by verdict
	CheckVerdicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reputation_check_verdicts_total",
			Help: "Total number of reputation checks by verdict",
		},
		[]string{"verdict"},
	)

	// StoreDuration tracks store operation latency
	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reputation_store_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// NotificationsTotal counts notifier deliveries by kind and status
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reputation_notifications_total",
			Help: "Total number of admin notifications",
		},
		[]string{"kind", "status"},
	)
)
