package pkg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forum_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LoginAttempts outcome: success / failure / error
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "forum_sessions_issued_total",
		Help: "Sessions inserted into the session store.",
	})

	OutboxPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forum_outbox_events_total",
		Help: "Outbox events handed to the sender, by result.",
	}, []string{"result"})
)
