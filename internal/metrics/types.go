package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	Enqueued           prometheus.Counter
	Cancelled          prometheus.Counter
	Proposals          prometheus.Counter
	ProposalsDeclined  prometheus.Counter
	ProposalsExpired   prometheus.Counter
	Matches            prometheus.Counter
	SessionsExpired    prometheus.Counter
	ResultsRecorded    prometheus.Counter
	EvaluationDuration prometheus.Histogram
	MatchQuality       prometheus.Histogram
	TimeToMatch        prometheus.Histogram
	QueueDepth         prometheus.Gauge
	StartupTimeSeconds prometheus.Gauge
}

// Durable lifetime counter keys, persisted through the MetricsStore.
const (
	KeyResultsRecorded = "results_recorded_total"
	KeyMatchesMade     = "matches_made_total"
	KeySearchesStarted = "searches_started_total"
)
