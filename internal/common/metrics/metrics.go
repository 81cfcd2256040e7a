// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_messages_total",
			Help: "Total number of chat messages processed by status",
		},
		[]string{"status"},
	)

	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_matches_total",
			Help: "Total number of match outcomes by result",
		},
		[]string{"result"},
	)

	MatchScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chatbot_match_score",
			Help:    "Best match score per processed message",
			Buckets: []float64{0, 0.5, 1, 1.5, 2, 3, 5, 8, 13},
		},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "chatbot_request_duration_seconds",
			Help: "Duration of request processing in seconds",
		},
		[]string{"path"},
	)

	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_collaborator_failures_total",
			Help: "Failures of best-effort collaborators by name",
		},
		[]string{"collaborator"},
	)
)
