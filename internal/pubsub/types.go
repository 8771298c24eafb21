package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchProposed  EventType = "match-proposed"
	EventMatchConfirmed EventType = "match-confirmed"
	EventRatingUpdated  EventType = "rating-updated"
)

// MatchConfirmedEvent is published when both players accept a proposal.
type MatchConfirmedEvent struct {
	ProposalID   string  `msgpack:"proposal_id"`
	PlayerA      string  `msgpack:"player_a"`
	PlayerB      string  `msgpack:"player_b"`
	QualityScore float64 `msgpack:"quality_score"`
}

// RatingUpdatedEvent is published after a match result is applied.
type RatingUpdatedEvent struct {
	PlayerID    string  `msgpack:"player_id"`
	Rating      float64 `msgpack:"rating"`
	Uncertainty float64 `msgpack:"uncertainty"`
	Delta       float64 `msgpack:"delta"`
}
