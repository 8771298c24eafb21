package engine

import (
	"sync"

	"github.com/konivrer/ranked/internal/queue"
	"github.com/konivrer/ranked/internal/rating"
)

// Mock is a mock implementation of the Engine interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	ProvisionPlayerFunc   func(playerID, name string) (*PlayerPlacement, error)
	SubmitMatchResultFunc func(playerA, playerB string, outcome rating.Outcome) (*MatchReport, error)
	GetPlacementFunc      func(playerID string) (*PlayerPlacement, error)
	LeaderboardFunc       func(limit int) ([]LeaderboardEntry, error)
	ListPlayersFunc       func(limit int) ([]*PlayerPlacement, error)
	UpdateProfileFunc     func(playerID string, archetype *string, playstyle []float64) error
	EnqueueSearchFunc     func(playerID string, prefs queue.Preferences) (queue.SearchSession, error)
	CancelSearchFunc      func(sessionID string) error
	SearchStatusFunc      func(sessionID string) (queue.SessionStatus, error)
	RespondToProposalFunc func(sessionID, proposalID string, accept bool) error

	// Call records
	ProvisionPlayerCalls   []string
	SubmitMatchResultCalls []SubmitCall
	EnqueueSearchCalls     []string
	CancelSearchCalls      []string
	RespondCalls           []string

	// Registered callbacks, so tests can fire them directly.
	ProposedHandlers  []func(queue.MatchProposal)
	ConfirmedHandlers []func(queue.MatchProposal)
}

// SubmitCall holds the arguments for a call to SubmitMatchResult.
type SubmitCall struct {
	PlayerA string
	PlayerB string
	Outcome rating.Outcome
}

// NewMock creates a new mock Engine.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) ProvisionPlayer(playerID, name string) (*PlayerPlacement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProvisionPlayerCalls = append(m.ProvisionPlayerCalls, playerID)
	if m.ProvisionPlayerFunc != nil {
		return m.ProvisionPlayerFunc(playerID, name)
	}
	return &PlayerPlacement{Player: &rating.RatingRecord{PlayerID: playerID, Name: name}}, nil
}

func (m *Mock) SubmitMatchResult(playerA, playerB string, outcome rating.Outcome) (*MatchReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubmitMatchResultCalls = append(m.SubmitMatchResultCalls, SubmitCall{PlayerA: playerA, PlayerB: playerB, Outcome: outcome})
	if m.SubmitMatchResultFunc != nil {
		return m.SubmitMatchResultFunc(playerA, playerB, outcome)
	}
	return &MatchReport{}, nil
}

func (m *Mock) GetPlacement(playerID string) (*PlayerPlacement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlacementFunc != nil {
		return m.GetPlacementFunc(playerID)
	}
	return &PlayerPlacement{Player: &rating.RatingRecord{PlayerID: playerID}}, nil
}

func (m *Mock) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(limit)
	}
	return nil, nil
}

func (m *Mock) ListPlayers(limit int) ([]*PlayerPlacement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(limit)
	}
	return nil, nil
}

func (m *Mock) UpdateProfile(playerID string, archetype *string, playstyle []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(playerID, archetype, playstyle)
	}
	return nil
}

func (m *Mock) EnqueueSearch(playerID string, prefs queue.Preferences) (queue.SearchSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnqueueSearchCalls = append(m.EnqueueSearchCalls, playerID)
	if m.EnqueueSearchFunc != nil {
		return m.EnqueueSearchFunc(playerID, prefs)
	}
	return queue.SearchSession{SessionID: "mock-session", PlayerID: playerID, State: queue.StateSearching}, nil
}

func (m *Mock) CancelSearch(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelSearchCalls = append(m.CancelSearchCalls, sessionID)
	if m.CancelSearchFunc != nil {
		return m.CancelSearchFunc(sessionID)
	}
	return nil
}

func (m *Mock) SearchStatus(sessionID string) (queue.SessionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SearchStatusFunc != nil {
		return m.SearchStatusFunc(sessionID)
	}
	return queue.SessionStatus{SessionID: sessionID, State: queue.StateSearching}, nil
}

func (m *Mock) RespondToProposal(sessionID, proposalID string, accept bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RespondCalls = append(m.RespondCalls, proposalID)
	if m.RespondToProposalFunc != nil {
		return m.RespondToProposalFunc(sessionID, proposalID, accept)
	}
	return nil
}

func (m *Mock) OnMatchProposed(fn func(queue.MatchProposal)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProposedHandlers = append(m.ProposedHandlers, fn)
}

func (m *Mock) OnMatchConfirmed(fn func(queue.MatchProposal)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConfirmedHandlers = append(m.ConfirmedHandlers, fn)
}
