package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starprep_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "starprep_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ModerationActions counts approve/deny decisions.
	ModerationActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starprep_moderation_actions_total",
		Help: "Total moderation decisions by action and outcome",
	}, []string{"action", "outcome"})

	// QuestionListSearches counts list queries by search mode, so the
	// substring-fallback rate is visible when full-text search is unavailable.
	QuestionListSearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starprep_question_list_searches_total",
		Help: "Total question list searches by mode (fulltext or substring)",
	}, []string{"mode"})

	// TagResolutions counts tag resolution outcomes (public hit, personal
	// hit, created, race-refetch).
	TagResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starprep_tag_resolutions_total",
		Help: "Total tag resolutions by outcome",
	}, []string{"outcome"})
)
