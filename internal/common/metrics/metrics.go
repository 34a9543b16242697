// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsAppended = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_transcript_turns_total",
			Help: "Total number of turns appended to chat transcripts",
		},
		[]string{"turn_kind"},
	)

	ValidationBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_form_validation_blocked_total",
			Help: "Total number of form step transitions refused by validation",
		},
		[]string{"form_kind"},
	)

	FormsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_forms_submitted_total",
			Help: "Total number of forms reaching the submitted state",
		},
		[]string{"form_kind"},
	)

	DispatchAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_dispatch_attempts_total",
			Help: "Total number of webhook dispatch attempts by outcome",
		},
		[]string{"request_type", "outcome"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "concierge_dispatch_duration_seconds",
			Help: "Duration of webhook dispatch attempts in seconds",
		},
		[]string{"request_type"},
	)
)
