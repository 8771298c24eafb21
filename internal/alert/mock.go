package alert

import (
	"sync"
	"time"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	LongWaitCalls []struct {
		PlayerID  string
		SessionID string
		Waited    time.Duration
	}
	EvaluationFailureCalls []string

	// Spies
	SendLongWaitAlertFunc          func(playerID, sessionID string, waited time.Duration, dryRun bool) error
	SendEvaluationFailureAlertFunc func(reason string, dryRun bool) error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LongWaitCalls = nil
	m.EvaluationFailureCalls = nil
}

func (m *Mock) SendLongWaitAlert(playerID, sessionID string, waited time.Duration, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LongWaitCalls = append(m.LongWaitCalls, struct {
		PlayerID  string
		SessionID string
		Waited    time.Duration
	}{playerID, sessionID, waited})
	if m.SendLongWaitAlertFunc != nil {
		return m.SendLongWaitAlertFunc(playerID, sessionID, waited, dryRun)
	}
	return nil
}

// LongWaitCallCount returns the number of long-wait alerts sent so far.
func (m *Mock) LongWaitCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.LongWaitCalls)
}

func (m *Mock) SendEvaluationFailureAlert(reason string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EvaluationFailureCalls = append(m.EvaluationFailureCalls, reason)
	if m.SendEvaluationFailureAlertFunc != nil {
		return m.SendEvaluationFailureAlertFunc(reason, dryRun)
	}
	return nil
}
