package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranked_search_sessions_enqueued_total",
			Help: "The total number of search sessions enqueued.",
		}),
		Cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranked_search_sessions_cancelled_total",
			Help: "The total number of search sessions cancelled by players.",
		}),
		Proposals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranked_match_proposals_total",
			Help: "The total number of match proposals emitted by the queue.",
		}),
		ProposalsDeclined: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranked_match_proposals_declined_total",
			Help: "The total number of match proposals declined by a player.",
		}),
		ProposalsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranked_match_proposals_expired_total",
			Help: "The total number of match proposals that expired or were withdrawn unresolved.",
		}),
		Matches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranked_matches_made_total",
			Help: "The total number of proposals accepted by both sides.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranked_search_sessions_expired_total",
			Help: "The total number of sessions that hit the maximum wait bound.",
		}),
		ResultsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranked_results_recorded_total",
			Help: "The total number of match results applied to the rating model.",
		}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranked_queue_evaluation_duration_seconds",
			Help:    "The duration of individual queue evaluation cycles.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		MatchQuality: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranked_match_quality_score",
			Help:    "The quality score of emitted match proposals.",
			Buckets: []float64{0.4, 0.45, 0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.8, 0.9, 1},
		}),
		TimeToMatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranked_time_to_match_seconds",
			Help:    "Elapsed wait from enqueue to a mutually accepted match.",
			Buckets: []float64{1, 2.5, 5, 10, 20, 45, 90, 180, 300, 600},
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ranked_queue_depth",
			Help: "The number of sessions currently searching.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ranked_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.Enqueued,
		s.Cancelled,
		s.Proposals,
		s.ProposalsDeclined,
		s.ProposalsExpired,
		s.Matches,
		s.SessionsExpired,
		s.ResultsRecorded,
		s.EvaluationDuration,
		s.MatchQuality,
		s.TimeToMatch,
		s.QueueDepth,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncEnqueued() {
	s.Enqueued.Inc()
}

func (s *Service) IncCancelled() {
	s.Cancelled.Inc()
}

func (s *Service) IncProposals() {
	s.Proposals.Inc()
}

func (s *Service) IncProposalsDeclined() {
	s.ProposalsDeclined.Inc()
}

func (s *Service) IncProposalsExpired() {
	s.ProposalsExpired.Inc()
}

func (s *Service) IncMatches() {
	s.Matches.Inc()
}

func (s *Service) IncSessionsExpired() {
	s.SessionsExpired.Inc()
}

func (s *Service) IncResultsRecorded() {
	s.ResultsRecorded.Inc()
}

func (s *Service) ObserveEvaluationDuration(seconds float64) {
	s.EvaluationDuration.Observe(seconds)
}

func (s *Service) ObserveMatchQuality(score float64) {
	s.MatchQuality.Observe(score)
}

func (s *Service) ObserveTimeToMatch(seconds float64) {
	s.TimeToMatch.Observe(seconds)
}

func (s *Service) SetQueueDepth(depth float64) {
	s.QueueDepth.Set(depth)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
