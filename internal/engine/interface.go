package engine

import (
	"github.com/konivrer/ranked/internal/queue"
	"github.com/konivrer/ranked/internal/rating"
)

// Engine is the application facade: player lifecycle, result submission,
// standings and the matchmaking queue.
type Engine interface {
	// ProvisionPlayer creates a new player with the explicit defaults.
	ProvisionPlayer(playerID, name string) (*PlayerPlacement, error)
	// SubmitMatchResult applies one outcome to both players atomically.
	SubmitMatchResult(playerA, playerB string, outcome rating.Outcome) (*MatchReport, error)
	// GetPlacement returns a player's record and derived classification.
	GetPlacement(playerID string) (*PlayerPlacement, error)
	// Leaderboard returns the top players by conservative rating.
	Leaderboard(limit int) ([]LeaderboardEntry, error)
	// ListPlayers returns players with their classifications, ordered by
	// conservative rating.
	ListPlayers(limit int) ([]*PlayerPlacement, error)
	// UpdateProfile sets a player's matchmaking profile.
	UpdateProfile(playerID string, archetype *string, playstyle []float64) error

	// EnqueueSearch opens a search session for a player.
	EnqueueSearch(playerID string, prefs queue.Preferences) (queue.SearchSession, error)
	// CancelSearch withdraws a session.
	CancelSearch(sessionID string) error
	// SearchStatus reports a session's state and wait estimate.
	SearchStatus(sessionID string) (queue.SessionStatus, error)
	// RespondToProposal accepts or declines a proposal for one session.
	RespondToProposal(sessionID, proposalID string, accept bool) error
	// OnMatchProposed registers a callback invoked for every proposal the
	// pool creates.
	OnMatchProposed(fn func(queue.MatchProposal))
	// OnMatchConfirmed registers a callback invoked for every mutually
	// accepted match.
	OnMatchConfirmed(fn func(queue.MatchProposal))
}
