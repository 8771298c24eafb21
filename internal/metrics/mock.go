package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	enqueued            int
	cancelled           int
	proposals           int
	proposalsDeclined   int
	proposalsExpired    int
	matches             int
	sessionsExpired     int
	resultsRecorded     int
	evaluationDurations []float64
	qualityScores       []float64
	timesToMatch        []float64
	queueDepth          float64
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		evaluationDurations: make([]float64, 0),
		qualityScores:       make([]float64, 0),
		timesToMatch:        make([]float64, 0),
	}
}

func (m *Mock) IncEnqueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued++
}

func (m *Mock) IncCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled++
}

func (m *Mock) IncProposals() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals++
}

func (m *Mock) IncProposalsDeclined() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposalsDeclined++
}

func (m *Mock) IncProposalsExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposalsExpired++
}

func (m *Mock) IncMatches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches++
}

func (m *Mock) IncSessionsExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsExpired++
}

func (m *Mock) IncResultsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsRecorded++
}

func (m *Mock) ObserveEvaluationDuration(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluationDurations = append(m.evaluationDurations, seconds)
}

func (m *Mock) ObserveMatchQuality(score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.qualityScores = append(m.qualityScores, score)
}

func (m *Mock) ObserveTimeToMatch(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timesToMatch = append(m.timesToMatch, seconds)
}

func (m *Mock) SetQueueDepth(depth float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueDepth = depth
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// EnqueuedCount returns the number of times IncEnqueued was called.
func (m *Mock) EnqueuedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enqueued
}

// CancelledCount returns the number of times IncCancelled was called.
func (m *Mock) CancelledCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cancelled
}

// ProposalCount returns the number of times IncProposals was called.
func (m *Mock) ProposalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proposals
}

// ProposalsDeclinedCount returns the number of times IncProposalsDeclined was called.
func (m *Mock) ProposalsDeclinedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proposalsDeclined
}

// ProposalsExpiredCount returns the number of times IncProposalsExpired was called.
func (m *Mock) ProposalsExpiredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proposalsExpired
}

// MatchCount returns the number of times IncMatches was called.
func (m *Mock) MatchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matches
}

// SessionsExpiredCount returns the number of times IncSessionsExpired was called.
func (m *Mock) SessionsExpiredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsExpired
}

// ResultsRecordedCount returns the number of times IncResultsRecorded was called.
func (m *Mock) ResultsRecordedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsRecorded
}

// QualityScores returns the scores observed so far.
func (m *Mock) QualityScores() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.qualityScores))
	copy(out, m.qualityScores)
	return out
}

// QueueDepth returns the last value passed to SetQueueDepth.
func (m *Mock) QueueDepthValue() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueDepth
}
