package queue

import (
	"errors"
	"time"

	"github.com/konivrer/ranked/internal/quality"
)

var (
	// ErrSessionNotFound is returned for operations on unknown sessions.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAlreadyInQueue is returned when a player enqueues while an
	// active session of theirs already exists.
	ErrAlreadyInQueue = errors.New("player already in queue")

	// ErrStaleProposal is returned when a response arrives for a proposal
	// that has already been resolved or expired. First valid transition
	// wins; later conflicting transitions land here.
	ErrStaleProposal = errors.New("stale proposal")

	// ErrInvalidPreferences is returned when search preferences fail
	// validation at enqueue time.
	ErrInvalidPreferences = errors.New("invalid preferences")
)

// Preset is the player-chosen precision/wait trade-off.
type Preset string

const (
	PresetStrict   Preset = "strict"
	PresetBalanced Preset = "balanced"
	PresetWide     Preset = "wide"
)

// SessionState tracks where a search session is in its lifecycle.
type SessionState string

const (
	StateSearching     SessionState = "SEARCHING"
	StateMatchProposed SessionState = "MATCH_PROPOSED"
	StateMatched       SessionState = "MATCHED"
	StateCancelled     SessionState = "CANCELLED"
	StateExpired       SessionState = "EXPIRED"
)

// Preferences are the constraints a player attaches to a search. Format
// is fixed to a single value in this product but carried for forward
// compatibility.
type Preferences struct {
	SkillRange Preset `json:"skill_range"`
	Region     string `json:"region"`
	Format     string `json:"format,omitempty"`
}

// Validate rejects malformed preferences before they enter the pool.
func (p Preferences) Validate() error {
	switch p.SkillRange {
	case PresetStrict, PresetBalanced, PresetWide:
	default:
		return ErrInvalidPreferences
	}
	if p.Region == "" {
		return ErrInvalidPreferences
	}
	return nil
}

// SearchSession is the per-player queue state. It is owned exclusively by
// the pool worker; callers only ever see copies through Status.
type SearchSession struct {
	SessionID   string                 `json:"session_id"`
	PlayerID    string                 `json:"player_id"`
	EnqueuedAt  time.Time              `json:"enqueued_at"`
	Preferences Preferences            `json:"preferences"`
	State       SessionState           `json:"state"`
	Snapshot    quality.PlayerSnapshot `json:"snapshot"`

	proposalID string
	// relaxStage is the last relaxation step observed for this session;
	// a stage advance permits the wait estimate to drop.
	relaxStage    int
	lastEstimate  time.Duration
	stageAdvanced bool
	alerted       bool
}

// MatchProposal pairs two sessions pending mutual acceptance. Terminal
// once accepted, declined or expired.
type MatchProposal struct {
	ID           string    `json:"id"`
	SessionA     string    `json:"session_a"`
	SessionB     string    `json:"session_b"`
	PlayerA      string    `json:"player_a"`
	PlayerB      string    `json:"player_b"`
	QualityScore float64   `json:"quality_score"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	acceptedA bool
	acceptedB bool
}

// SessionStatus is the externally visible view of a session. Proposal is
// populated only while the session is in MATCH_PROPOSED.
type SessionStatus struct {
	SessionID     string         `json:"session_id"`
	State         SessionState   `json:"state"`
	Elapsed       time.Duration  `json:"elapsed"`
	EstimatedWait time.Duration  `json:"estimated_wait"`
	Proposal      *MatchProposal `json:"proposal,omitempty"`
}

// RelaxationCurve lowers the acceptance threshold as a session waits.
// Threshold(t) = max(Floor, Start - PerSecond*seconds).
type RelaxationCurve struct {
	Start     float64
	Floor     float64
	PerSecond float64
}

// Threshold evaluates the curve at an elapsed wait.
func (c RelaxationCurve) Threshold(elapsed time.Duration) float64 {
	th := c.Start - c.PerSecond*elapsed.Seconds()
	if th < c.Floor {
		return c.Floor
	}
	return th
}

// Stage is the number of discrete relaxation steps the curve has taken at
// an elapsed wait. The estimator uses stage advances as the one moment a
// reported wait estimate may shrink.
func (c RelaxationCurve) Stage(elapsed time.Duration) int {
	return int((c.Start - c.Threshold(elapsed)) / relaxStageStep)
}

const relaxStageStep = 0.05

// Config holds the pool worker's tunables.
type Config struct {
	// TickInterval is the evaluation cadence.
	TickInterval time.Duration
	// ProposalTTL bounds how long both sides have to accept.
	ProposalTTL time.Duration
	// MaxWait expires sessions that waited too long; zero means unlimited.
	MaxWait time.Duration
	// CandidateWindow caps how many of the longest-waiting sessions are
	// scored per cycle, bounding the O(N²) pass.
	CandidateWindow int
	// LongWaitAlert fires a single ops alert per session past this wait;
	// zero disables alerting.
	LongWaitAlert time.Duration
	// DryRun logs alerts instead of posting them.
	DryRun bool
	// Weights configure the quality scorer.
	Weights quality.Weights
	// Curves maps each preset to its relaxation curve.
	Curves map[Preset]RelaxationCurve
}

// DefaultConfig returns the production tuning: strict starts high and
// relaxes slowly to a high floor, wide starts low and collapses fast.
func DefaultConfig() Config {
	return Config{
		TickInterval:    2 * time.Second,
		ProposalTTL:     30 * time.Second,
		MaxWait:         0,
		CandidateWindow: 128,
		LongWaitAlert:   5 * time.Minute,
		Weights:         quality.DefaultWeights(),
		Curves: map[Preset]RelaxationCurve{
			PresetStrict:   {Start: 0.75, Floor: 0.55, PerSecond: 0.00075},
			PresetBalanced: {Start: 0.65, Floor: 0.45, PerSecond: 0.0015},
			PresetWide:     {Start: 0.55, Floor: 0.40, PerSecond: 0.003},
		},
	}
}
