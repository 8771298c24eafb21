package http

import (
	"net/http"

	"github.com/konivrer/ranked/internal/config"
	"github.com/konivrer/ranked/internal/engine"
	"github.com/konivrer/ranked/internal/metrics"
	"github.com/konivrer/ranked/internal/queue"
	"github.com/konivrer/ranked/internal/rating"
)

type Server struct {
	Engine         engine.Engine
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Counters       metrics.MetricsStore
	Cfg            config.Config
	Router         *http.ServeMux
}

// provisionRequest creates a new player.
type provisionRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// profileRequest updates a player's matchmaking profile.
type profileRequest struct {
	PlayerID  string    `json:"player_id"`
	Archetype *string   `json:"archetype"`
	Playstyle []float64 `json:"playstyle"`
}

// resultRequest reports a finished match.
type resultRequest struct {
	PlayerA string         `json:"player_a"`
	PlayerB string         `json:"player_b"`
	Outcome rating.Outcome `json:"outcome"`
}

// enqueueRequest opens a search session.
type enqueueRequest struct {
	PlayerID    string            `json:"player_id"`
	Preferences queue.Preferences `json:"preferences"`
}

// respondRequest answers a match proposal.
type respondRequest struct {
	SessionID  string `json:"session_id"`
	ProposalID string `json:"proposal_id"`
	Accept     bool   `json:"accept"`
}

type errorResponse struct {
	Error string `json:"error"`
}
