package queue

import (
	"context"

	"github.com/konivrer/ranked/internal/quality"
)

// Pool is the matchmaking queue. All operations are serialized onto a
// single worker goroutine, so callers never race on session state.
type Pool interface {
	// Start launches the worker. The worker exits when ctx is cancelled
	// or Stop is called.
	Start(ctx context.Context)
	// Stop shuts the worker down and waits for it to exit.
	Stop()
	// Enqueue opens a search session for a player. A player can hold at
	// most one active session.
	Enqueue(playerID string, snapshot quality.PlayerSnapshot, prefs Preferences) (SearchSession, error)
	// Cancel withdraws a session. Cancellation takes priority over
	// pending evaluation work.
	Cancel(sessionID string) error
	// Status reports the current state of a session, including recently
	// terminated ones.
	Status(sessionID string) (SessionStatus, error)
	// Respond accepts or declines a proposal on behalf of one session.
	Respond(sessionID, proposalID string, accept bool) error
	// Proposed delivers proposals as the worker creates them.
	Proposed() <-chan MatchProposal
	// Confirmed delivers proposals accepted by both sides.
	Confirmed() <-chan MatchProposal
	// Depth reports the number of sessions currently searching.
	Depth() int
}
