package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcome labels
const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty"
	OutcomeUpstreamError = "upstream_error"
)

var (
	SearchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotel_search_outcomes_total",
			Help: "Search pipeline runs by outcome (ok, empty, upstream_error)",
		},
		[]string{"outcome"},
	)

	SkippedRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotel_search_skipped_records_total",
			Help: "Upstream hotel records dropped by per-record validation",
		},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of outbound calls to external providers",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	AgentTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_turns_total",
			Help: "Conversation turns by status",
		},
		[]string{"status"},
	)

	AgentToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_tool_calls_total",
			Help: "Tool invocations requested by the language model",
		},
		[]string{"tool", "status"},
	)
)
