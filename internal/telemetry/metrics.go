package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incognitobot_events_total",
		Help: "Inbound events processed, labeled by event kind",
	}, []string{"kind"})

	AccessDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incognitobot_access_decisions_total",
		Help: "Membership gate decisions, labeled by outcome",
	}, []string{"outcome"})

	QuotaDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incognitobot_quota_consumed_total",
		Help: "Quota consumption attempts, labeled by the source that paid for them",
	}, []string{"via"})

	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incognitobot_responses_total",
		Help: "Persona replies produced, labeled by the cascade tier that produced them",
	}, []string{"tier"})

	GeneratorDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "incognitobot_generator_request_duration_seconds",
		Help:    "Latency distribution of primary generator calls",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
	})

	AdminCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incognitobot_admin_commands_total",
		Help: "Privileged commands, labeled by command and outcome",
	}, []string{"command", "outcome"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "incognitobot_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "incognitobot_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5, 15},
	}, []string{"method", "endpoint"})
)
