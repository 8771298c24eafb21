package queue

import (
	"context"
	"sync"

	"github.com/konivrer/ranked/internal/quality"
)

// MockPool is a mock implementation of the Pool interface for testing.
// It is safe for concurrent use.
type MockPool struct {
	mu sync.Mutex

	// Spies for method calls
	EnqueueFunc func(playerID string, snapshot quality.PlayerSnapshot, prefs Preferences) (SearchSession, error)
	CancelFunc  func(sessionID string) error
	StatusFunc  func(sessionID string) (SessionStatus, error)
	RespondFunc func(sessionID, proposalID string, accept bool) error

	// Call records
	EnqueueCalls []EnqueueCall
	CancelCalls  []string
	StatusCalls  []string
	RespondCalls []RespondCall

	// ProposedCh and ConfirmedCh are returned by Proposed and Confirmed.
	// Tests can push proposals in.
	ProposedCh  chan MatchProposal
	ConfirmedCh chan MatchProposal

	DepthValue int
}

// EnqueueCall holds the arguments for a call to Enqueue.
type EnqueueCall struct {
	PlayerID    string
	Snapshot    quality.PlayerSnapshot
	Preferences Preferences
}

// RespondCall holds the arguments for a call to Respond.
type RespondCall struct {
	SessionID  string
	ProposalID string
	Accept     bool
}

// NewMock creates a new mock Pool.
func NewMock() *MockPool {
	return &MockPool{
		ProposedCh:  make(chan MatchProposal, 16),
		ConfirmedCh: make(chan MatchProposal, 16),
	}
}

// Reset clears all call records.
func (m *MockPool) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnqueueCalls = nil
	m.CancelCalls = nil
	m.StatusCalls = nil
	m.RespondCalls = nil
}

func (m *MockPool) Start(ctx context.Context) {}

func (m *MockPool) Stop() {}

func (m *MockPool) Enqueue(playerID string, snapshot quality.PlayerSnapshot, prefs Preferences) (SearchSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnqueueCalls = append(m.EnqueueCalls, EnqueueCall{PlayerID: playerID, Snapshot: snapshot, Preferences: prefs})
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(playerID, snapshot, prefs)
	}
	return SearchSession{SessionID: "mock-session", PlayerID: playerID, Preferences: prefs, State: StateSearching}, nil
}

func (m *MockPool) Cancel(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelCalls = append(m.CancelCalls, sessionID)
	if m.CancelFunc != nil {
		return m.CancelFunc(sessionID)
	}
	return nil
}

func (m *MockPool) Status(sessionID string) (SessionStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusCalls = append(m.StatusCalls, sessionID)
	if m.StatusFunc != nil {
		return m.StatusFunc(sessionID)
	}
	return SessionStatus{SessionID: sessionID, State: StateSearching}, nil
}

func (m *MockPool) Respond(sessionID, proposalID string, accept bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RespondCalls = append(m.RespondCalls, RespondCall{SessionID: sessionID, ProposalID: proposalID, Accept: accept})
	if m.RespondFunc != nil {
		return m.RespondFunc(sessionID, proposalID, accept)
	}
	return nil
}

func (m *MockPool) Proposed() <-chan MatchProposal {
	return m.ProposedCh
}

func (m *MockPool) Confirmed() <-chan MatchProposal {
	return m.ConfirmedCh
}

func (m *MockPool) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.DepthValue
}
