package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pitchlab/services/chat-api/internal/domain/chat"
)

// Response round metrics
var (
	// Round counters by terminal status
	RoundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pitchlab",
			Subsystem: "chat_api",
			Name:      "rounds_total",
			Help:      "Total number of response rounds finished",
		},
		[]string{"status"},
	)

	// Round duration histogram
	RoundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pitchlab",
			Subsystem: "chat_api",
			Name:      "round_duration_seconds",
			Help:      "Response round duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"status"},
	)

	// Persona response counters
	PersonaResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pitchlab",
			Subsystem: "chat_api",
			Name:      "persona_responses_total",
			Help:      "Total persona responses produced, fallbacks included",
		},
		[]string{"persona", "fallback"},
	)

	// Generation duration histogram
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pitchlab",
			Subsystem: "chat_api",
			Name:      "generation_duration_seconds",
			Help:      "Single persona generation duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"persona"},
	)

	// Addressee count histogram
	RoundAddressees = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pitchlab",
			Subsystem: "chat_api",
			Name:      "round_addressees",
			Help:      "Number of personas addressed per round",
			Buckets:   []float64{1, 2, 3, 4, 5, 8, 12},
		},
	)
)

// RoundObserver bridges orchestration callbacks onto Prometheus collectors.
type RoundObserver struct{}

// NewRoundObserver returns the Prometheus-backed round observer.
func NewRoundObserver() RoundObserver {
	return RoundObserver{}
}

// RoundStarted records the addressee count of a new round.
func (RoundObserver) RoundStarted(threadID string, addressees int) {
	RoundAddressees.Observe(float64(addressees))
}

// PersonaResponded records one persona turn.
func (RoundObserver) PersonaResponded(personaName string, fallback bool, duration time.Duration) {
	label := "false"
	if fallback {
		label = "true"
	}
	PersonaResponsesTotal.WithLabelValues(personaName, label).Inc()
	GenerationDuration.WithLabelValues(personaName).Observe(duration.Seconds())
}

// RoundFinished records a round reaching a terminal status.
func (RoundObserver) RoundFinished(threadID, status string, duration time.Duration) {
	RoundsTotal.WithLabelValues(status).Inc()
	RoundDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// Ensure interface compliance.
var _ chat.Observer = RoundObserver{}
