package rating

import "sync"

// MockStore is a mock implementation of Store for testing. It is safe for
// concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	ProvisionFunc        func(rec *RatingRecord) error
	GetFunc              func(playerID string) (*RatingRecord, error)
	ApplyResultFunc      func(playerA, playerB string, apply func(a, b *RatingRecord) (*MatchResult, error)) error
	UpdateProfileFunc    func(playerID string, archetype *string, playstyle []float64) error
	ListFunc             func(limit int) ([]*RatingRecord, error)
	ResetSeasonPeaksFunc func() error

	// GetPairFunc feeds the default ApplyResult with records.
	GetPairFunc func(playerA, playerB string) (*RatingRecord, *RatingRecord, error)

	// Call records
	ProvisionCalls   []*RatingRecord
	ApplyResultCalls []ApplyResultCall
}

// ApplyResultCall holds what a call to ApplyResult committed.
type ApplyResultCall struct {
	A      *RatingRecord
	B      *RatingRecord
	Result *MatchResult
}

// NewMockStore creates a new mock Store.
func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Provision(rec *RatingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProvisionCalls = append(m.ProvisionCalls, rec)
	if m.ProvisionFunc != nil {
		return m.ProvisionFunc(rec)
	}
	return nil
}

func (m *MockStore) Get(playerID string) (*RatingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(playerID)
	}
	return nil, ErrUnknownPlayer
}

func (m *MockStore) ApplyResult(playerA, playerB string, apply func(a, b *RatingRecord) (*MatchResult, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ApplyResultFunc != nil {
		return m.ApplyResultFunc(playerA, playerB, apply)
	}
	if m.GetPairFunc == nil {
		return ErrUnknownPlayer
	}
	a, b, err := m.GetPairFunc(playerA, playerB)
	if err != nil {
		return err
	}
	result, err := apply(a, b)
	if err != nil {
		return err
	}
	m.ApplyResultCalls = append(m.ApplyResultCalls, ApplyResultCall{A: a, B: b, Result: result})
	return nil
}

func (m *MockStore) UpdateProfile(playerID string, archetype *string, playstyle []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(playerID, archetype, playstyle)
	}
	return nil
}

func (m *MockStore) List(limit int) ([]*RatingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(limit)
	}
	return nil, nil
}

func (m *MockStore) ResetSeasonPeaks() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ResetSeasonPeaksFunc != nil {
		return m.ResetSeasonPeaksFunc()
	}
	return nil
}
