package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "missions_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "missions_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// Recommendation Gateway Metrics
	RecommenderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "missions_recommender_requests_total",
			Help: "Recommendation gateway calls by outcome (ranked, empty, unavailable)",
		},
		[]string{"outcome"},
	)

	RecommenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "missions_recommender_request_duration_seconds",
			Help:    "Recommendation gateway call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
	)

	RecommendationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "missions_recommendation_fallbacks_total",
			Help: "Recommendations served from the popularity ranking, by reason",
		},
		[]string{"reason"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "missions_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "missions_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Completion Metrics
	MissionCompletions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "missions_completions_total",
			Help: "Mission completion attempts by result (completed, failed, rejected, conflict)",
		},
		[]string{"result"},
	)

	CoinsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "missions_coins_awarded_total",
			Help: "Total coins credited by successful completions",
		},
	)

	IdempotentReplays = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "missions_idempotent_replays_total",
			Help: "Responses served from the idempotency replay cache",
		},
	)
)

// RecordAPIRequest records one served request
func RecordAPIRequest(method, route string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommenderCall records one gateway call
func RecordRecommenderCall(outcome string, duration time.Duration) {
	RecommenderRequests.WithLabelValues(outcome).Inc()
	RecommenderDuration.Observe(duration.Seconds())
}

// RecordRecommendationFallback counts a popularity fallback
func RecordRecommendationFallback(reason string) {
	RecommendationFallbacks.WithLabelValues(reason).Inc()
}

// RecordCompletion counts a completion attempt and the coins it credited
func RecordCompletion(result string, reward int) {
	MissionCompletions.WithLabelValues(result).Inc()
	if reward > 0 {
		CoinsAwarded.Add(float64(reward))
	}
}

// RecordIdempotentReplay counts a replayed response
func RecordIdempotentReplay() {
	IdempotentReplays.Inc()
}
