package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncEnqueued()
	IncCancelled()
	IncProposals()
	IncProposalsDeclined()
	IncProposalsExpired()
	IncMatches()
	IncSessionsExpired()
	IncResultsRecorded()
	ObserveEvaluationDuration(seconds float64)
	ObserveMatchQuality(score float64)
	ObserveTimeToMatch(seconds float64)
	SetQueueDepth(depth float64)
	SetStartupTime(duration float64)
}

// MetricsStore persists lifetime counters across restarts, separate from
// the process-local Prometheus registry.
type MetricsStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
