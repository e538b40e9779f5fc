// Package metrics exposes Prometheus instrumentation for recommendation
// generation, the similar-user lookup and the recommendation cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes recorded by SimilarityLookups.
const (
	LookupSuccess  = "success"
	LookupError    = "error"
	LookupTimeout  = "timeout"
	LookupDisabled = "disabled"
)

var (
	// GenerationDuration tracks end-to-end Generate latency.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fanplan_generation_duration_seconds",
			Help:    "Duration of recommendation generation runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// StrategyCandidates counts candidates emitted per scoring strategy.
	StrategyCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanplan_strategy_candidates_total",
			Help: "Total number of candidate recommendations emitted by each strategy",
		},
		[]string{"strategy"},
	)

	// RecommendationsReturned counts recommendations handed back to callers.
	RecommendationsReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanplan_recommendations_returned_total",
			Help: "Total number of recommendations returned",
		},
		[]string{"kind"}, // "entity", "content"
	)

	// SimilarityLookups counts similar-user lookups by outcome.
	SimilarityLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanplan_similarity_lookups_total",
			Help: "Total number of similar-user lookups by outcome",
		},
		[]string{"outcome"},
	)

	// BoostedRecommendations counts recommendations boosted by the collaborative signal.
	BoostedRecommendations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fanplan_boosted_recommendations_total",
			Help: "Total number of recommendations boosted by similar-user popularity",
		},
	)

	// CacheOperations counts cache reads and writes by result.
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanplan_cache_operations_total",
			Help: "Total number of recommendation cache operations",
		},
		[]string{"operation", "result"}, // load: hit/miss/corrupt/expired, save: ok/error
	)

	// CircuitBreakerState tracks breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fanplan_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests counts requests through a breaker by result.
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanplan_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)
)
