package engine

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/konivrer/ranked/internal/metrics"
	"github.com/konivrer/ranked/internal/pubsub"
	"github.com/konivrer/ranked/internal/quality"
	"github.com/konivrer/ranked/internal/queue"
	"github.com/konivrer/ranked/internal/rating"
	"github.com/konivrer/ranked/internal/tier"
)

// New creates a new Engine.
func New(store rating.Store, model *rating.Model, pool queue.Pool, m metrics.Metrics, counters metrics.MetricsStore, events pubsub.PubSubClient) Engine {
	return &engine{
		store:    store,
		model:    model,
		pool:     pool,
		metrics:  m,
		counters: counters,
		events:   events,
	}
}

func (e *engine) ProvisionPlayer(playerID, name string) (*PlayerPlacement, error) {
	rec := e.model.NewRecord(playerID, name)
	if err := e.store.Provision(rec); err != nil {
		return nil, err
	}
	log.Info("Player provisioned", "playerID", playerID, "name", name)
	return e.placementOf(rec), nil
}

func (e *engine) SubmitMatchResult(playerA, playerB string, outcome rating.Outcome) (*MatchReport, error) {
	if playerA == playerB {
		return nil, ErrSamePlayer
	}

	// The whole read-modify-write runs inside the store's critical
	// section, so simultaneous submissions sharing a player each see the
	// state the previous one committed.
	var (
		a, b   *rating.RatingRecord
		result *rating.MatchResult
	)
	err := e.store.ApplyResult(playerA, playerB, func(ra, rb *rating.RatingRecord) (*rating.MatchResult, error) {
		beforeA, beforeB := ra.Rating, rb.Rating
		if err := e.model.RecordResult(ra, rb, outcome); err != nil {
			return nil, err
		}
		res := &rating.MatchResult{
			ID:        uuid.NewString(),
			PlayerA:   ra.PlayerID,
			PlayerB:   rb.PlayerID,
			Outcome:   outcome,
			DeltaA:    ra.Rating - beforeA,
			DeltaB:    rb.Rating - beforeB,
			CreatedAt: time.Now().Unix(),
		}
		a, b, result = ra, rb, res
		return res, nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.IncResultsRecorded()
	e.counters.Increment(metrics.KeyResultsRecorded)
	log.Info("Match result recorded", "resultID", result.ID, "playerA", playerA, "playerB", playerB, "outcome", outcome, "deltaA", result.DeltaA, "deltaB", result.DeltaB)

	e.publishRatingUpdates(a, b, result)

	return &MatchReport{
		Result:  *result,
		PlayerA: *e.placementOf(a),
		PlayerB: *e.placementOf(b),
	}, nil
}

func (e *engine) publishRatingUpdates(a, b *rating.RatingRecord, result *rating.MatchResult) {
	if e.events == nil {
		return
	}
	updates := []pubsub.RatingUpdatedEvent{
		{PlayerID: a.PlayerID, Rating: a.Rating, Uncertainty: a.Uncertainty, Delta: result.DeltaA},
		{PlayerID: b.PlayerID, Rating: b.Rating, Uncertainty: b.Uncertainty, Delta: result.DeltaB},
	}
	go func() {
		for _, update := range updates {
			if err := e.events.SendMessage(pubsub.EventRatingUpdated, update); err != nil {
				log.Error("Failed to publish rating update", "error", err, "playerID", update.PlayerID)
			}
		}
	}()
}

func (e *engine) GetPlacement(playerID string) (*PlayerPlacement, error) {
	rec, err := e.store.Get(playerID)
	if err != nil {
		return nil, err
	}
	return e.placementOf(rec), nil
}

func (e *engine) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	records, err := e.store.List(limit)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(records))
	for i, rec := range records {
		entries = append(entries, LeaderboardEntry{
			Rank:      i + 1,
			Player:    rec,
			Placement: tier.Classify(*rec),
		})
	}
	return entries, nil
}

func (e *engine) ListPlayers(limit int) ([]*PlayerPlacement, error) {
	records, err := e.store.List(limit)
	if err != nil {
		return nil, err
	}
	placements := make([]*PlayerPlacement, 0, len(records))
	for _, rec := range records {
		placements = append(placements, e.placementOf(rec))
	}
	return placements, nil
}

func (e *engine) UpdateProfile(playerID string, archetype *string, playstyle []float64) error {
	if _, err := e.store.Get(playerID); err != nil {
		return err
	}
	return e.store.UpdateProfile(playerID, archetype, playstyle)
}

func (e *engine) EnqueueSearch(playerID string, prefs queue.Preferences) (queue.SearchSession, error) {
	rec, err := e.store.Get(playerID)
	if err != nil {
		return queue.SearchSession{}, err
	}
	placement := tier.Classify(*rec)
	snap := quality.PlayerSnapshot{
		PlayerID:  rec.PlayerID,
		Rating:    rec.Rating,
		Band:      placement.Band,
		Archetype: rec.DeckArchetype,
		Playstyle: rec.Playstyle,
	}
	return e.pool.Enqueue(playerID, snap, prefs)
}

func (e *engine) CancelSearch(sessionID string) error {
	return e.pool.Cancel(sessionID)
}

func (e *engine) SearchStatus(sessionID string) (queue.SessionStatus, error) {
	return e.pool.Status(sessionID)
}

func (e *engine) RespondToProposal(sessionID, proposalID string, accept bool) error {
	return e.pool.Respond(sessionID, proposalID, accept)
}

func (e *engine) OnMatchProposed(fn func(queue.MatchProposal)) {
	e.mu.Lock()
	e.onProposed = append(e.onProposed, fn)
	e.mu.Unlock()
	e.startDispatch()
}

func (e *engine) OnMatchConfirmed(fn func(queue.MatchProposal)) {
	e.mu.Lock()
	e.onConfirmed = append(e.onConfirmed, fn)
	e.mu.Unlock()
	e.startDispatch()
}

func (e *engine) startDispatch() {
	e.dispatchOnce.Do(func() {
		go e.dispatch()
	})
}

// dispatch fans pool deliveries out to the registered callbacks. It runs
// until the pool's channels are closed.
func (e *engine) dispatch() {
	proposed := e.pool.Proposed()
	confirmed := e.pool.Confirmed()
	for proposed != nil || confirmed != nil {
		select {
		case prop, ok := <-proposed:
			if !ok {
				proposed = nil
				continue
			}
			for _, fn := range e.handlers(&e.onProposed) {
				fn(prop)
			}
		case prop, ok := <-confirmed:
			if !ok {
				confirmed = nil
				continue
			}
			for _, fn := range e.handlers(&e.onConfirmed) {
				fn(prop)
			}
		}
	}
}

func (e *engine) handlers(list *[]func(queue.MatchProposal)) []func(queue.MatchProposal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]func(queue.MatchProposal), len(*list))
	copy(out, *list)
	return out
}

func (e *engine) placementOf(rec *rating.RatingRecord) *PlayerPlacement {
	return &PlayerPlacement{
		Player:    rec,
		Placement: tier.Classify(*rec),
	}
}
