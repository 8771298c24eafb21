package engine

import (
	"errors"
	"sync"

	"github.com/konivrer/ranked/internal/metrics"
	"github.com/konivrer/ranked/internal/pubsub"
	"github.com/konivrer/ranked/internal/queue"
	"github.com/konivrer/ranked/internal/rating"
	"github.com/konivrer/ranked/internal/tier"
)

// ErrSamePlayer is returned when both sides of a result are one player.
var ErrSamePlayer = errors.New("players must differ")

// engine wires the rating model, tier classifier and matchmaking pool
// behind one facade.
type engine struct {
	store    rating.Store
	model    *rating.Model
	pool     queue.Pool
	metrics  metrics.Metrics
	counters metrics.MetricsStore
	events   pubsub.PubSubClient

	mu           sync.Mutex
	onProposed   []func(queue.MatchProposal)
	onConfirmed  []func(queue.MatchProposal)
	dispatchOnce sync.Once
}

// PlayerPlacement is a record together with its derived classification.
type PlayerPlacement struct {
	Player    *rating.RatingRecord `json:"player"`
	Placement tier.Placement       `json:"placement"`
}

// LeaderboardEntry is one row of the conservative-rating leaderboard.
type LeaderboardEntry struct {
	Rank      int                  `json:"rank"`
	Player    *rating.RatingRecord `json:"player"`
	Placement tier.Placement       `json:"placement"`
}

// MatchReport is the full outcome of a submitted result: the persisted
// history row and both players' updated standings.
type MatchReport struct {
	Result  rating.MatchResult `json:"result"`
	PlayerA PlayerPlacement    `json:"player_a"`
	PlayerB PlayerPlacement    `json:"player_b"`
}
