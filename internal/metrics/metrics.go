package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedloom_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "status"},
	)

	RequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feedloom_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Auth metrics
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedloom_auth_registrations_total",
			Help: "Total number of registration attempts",
		},
		[]string{"result"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedloom_auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedloom_auth_refresh_total",
			Help: "Total number of refresh attempts",
		},
		[]string{"result"},
	)

	// SessionsRevoked counts full-ledger revocations triggered by
	// refresh-token reuse detection.
	SessionsRevoked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feedloom_auth_sessions_revoked_total",
			Help: "Total number of sessions revoked by refresh-token reuse detection",
		},
	)
)
