package http

import (
	"net/http"

	"github.com/konivrer/ranked/internal/config"
	"github.com/konivrer/ranked/internal/engine"
	"github.com/konivrer/ranked/internal/metrics"
)

func NewServer(eng engine.Engine, metricsSvc metrics.Metrics, metricsHandler http.Handler, counters metrics.MetricsStore, cfg config.Config) *Server {
	server := &Server{
		Engine:         eng,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Counters:       counters,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/counters", Chain(s.CountersHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.PlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/profile", Chain(s.UpdateProfileHandler(), paramsMiddleware))
	s.Router.Handle("/placement", Chain(s.PlacementHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/submit-result", Chain(s.SubmitResultHandler(), paramsMiddleware))
	s.Router.Handle("/search/enqueue", Chain(s.EnqueueSearchHandler(), paramsMiddleware))
	s.Router.Handle("/search/cancel", Chain(s.CancelSearchHandler(), paramsMiddleware))
	s.Router.Handle("/search/status", Chain(s.SearchStatusHandler(), paramsMiddleware))
	s.Router.Handle("/search/respond", Chain(s.RespondHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
