package engine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/konivrer/ranked/internal/database"
	"github.com/konivrer/ranked/internal/metrics"
	"github.com/konivrer/ranked/internal/pubsub"
	"github.com/konivrer/ranked/internal/queue"
	"github.com/konivrer/ranked/internal/rating"
	"github.com/konivrer/ranked/internal/tier"
)

type mockCounterStore struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *mockCounterStore) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[key]++
}

func (m *mockCounterStore) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts, nil
}

type testEngine struct {
	Engine
	store    *rating.MockStore
	pool     *queue.MockPool
	metrics  *metrics.Mock
	counters *mockCounterStore
	events   *pubsub.MockPubSubClient
	model    *rating.Model
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	store := rating.NewMockStore()
	pool := queue.NewMock()
	m := metrics.NewMock()
	counters := &mockCounterStore{}
	events := pubsub.NewMock("test")
	model := rating.NewModel(rating.DefaultConfig())
	return &testEngine{
		Engine:   New(store, model, pool, m, counters, events),
		store:    store,
		pool:     pool,
		metrics:  m,
		counters: counters,
		events:   events,
		model:    model,
	}
}

func record(model *rating.Model, playerID string) *rating.RatingRecord {
	return model.NewRecord(playerID, playerID)
}

func TestSubmitMatchResult_AppliesAndPersists(t *testing.T) {
	e := newTestEngine(t)
	a := record(e.model, "player-a")
	b := record(e.model, "player-b")
	e.store.GetPairFunc = func(playerA, playerB string) (*rating.RatingRecord, *rating.RatingRecord, error) {
		return a, b, nil
	}

	report, err := e.SubmitMatchResult("player-a", "player-b", rating.OutcomeAWin)
	require.NoError(t, err)

	assert.Greater(t, report.Result.DeltaA, 0.0, "winner gains rating")
	assert.Less(t, report.Result.DeltaB, 0.0, "loser bleeds rating")
	assert.Equal(t, rating.OutcomeAWin, report.Result.Outcome)
	assert.NotEmpty(t, report.Result.ID)

	require.Len(t, e.store.ApplyResultCalls, 1)
	assert.Equal(t, 1, e.metrics.ResultsRecordedCount())
	assert.Equal(t, 1, e.counters.counts[metrics.KeyResultsRecorded])

	// One rating-updated event per player, published off the hot path.
	assert.Eventually(t, func() bool {
		return e.events.SendMessageCallCount() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestSubmitMatchResult_SamePlayer(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SubmitMatchResult("player-a", "player-a", rating.OutcomeAWin)
	assert.ErrorIs(t, err, ErrSamePlayer)
	assert.Empty(t, e.store.ApplyResultCalls)
}

func TestSubmitMatchResult_UnknownPlayer(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SubmitMatchResult("player-a", "player-b", rating.OutcomeAWin)
	assert.ErrorIs(t, err, rating.ErrUnknownPlayer)
}

func TestSubmitMatchResult_InvalidOutcome(t *testing.T) {
	e := newTestEngine(t)
	a := record(e.model, "player-a")
	b := record(e.model, "player-b")
	e.store.GetPairFunc = func(playerA, playerB string) (*rating.RatingRecord, *rating.RatingRecord, error) {
		return a, b, nil
	}

	_, err := e.SubmitMatchResult("player-a", "player-b", rating.Outcome("NONSENSE"))
	assert.ErrorIs(t, err, rating.ErrInvalidOutcome)
	assert.Empty(t, e.store.ApplyResultCalls, "nothing is persisted for a rejected outcome")
	assert.Equal(t, 0, e.metrics.ResultsRecordedCount())
}

func TestSubmitMatchResult_ConcurrentSubmissionsSerialize(t *testing.T) {
	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer dbTeardown()

	store := rating.NewStore(db)
	model := rating.NewModel(rating.DefaultConfig())
	e := New(store, model, queue.NewMock(), metrics.NewMock(), &mockCounterStore{}, pubsub.NewMock("test"))

	require.NoError(t, store.Provision(model.NewRecord("hub", "Hub")))
	const opponents = 16
	for i := 0; i < opponents; i++ {
		require.NoError(t, store.Provision(model.NewRecord(fmt.Sprintf("opp-%d", i), "Opponent")))
	}

	var (
		mu     sync.Mutex
		deltas []float64
		wg     sync.WaitGroup
	)
	for i := 0; i < opponents; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			report, err := e.SubmitMatchResult("hub", fmt.Sprintf("opp-%d", i), rating.OutcomeAWin)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			deltas = append(deltas, report.Result.DeltaA)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	// No submission may be lost to a stale read.
	hub, err := store.Get("hub")
	require.NoError(t, err)
	assert.Equal(t, opponents, hub.MatchesPlayed)
	assert.Equal(t, opponents, hub.Wins)

	// Each win applies to the previous one's committed state, so the
	// hub's K factor and expected score shift between submissions. A
	// single repeated delta would mean they all read the same record.
	distinct := make(map[float64]struct{}, len(deltas))
	for _, d := range deltas {
		distinct[d] = struct{}{}
	}
	assert.Greater(t, len(distinct), 1)
}

func TestProvisionPlayer(t *testing.T) {
	e := newTestEngine(t)

	placement, err := e.ProvisionPlayer("player-a", "Alice")
	require.NoError(t, err)

	assert.Equal(t, 1500.0, placement.Player.Rating)
	assert.Equal(t, 350.0, placement.Player.Uncertainty)
	assert.Equal(t, tier.Bronze, placement.Placement.Tier)
	assert.Equal(t, tier.BandUncertain, placement.Placement.Band)
	require.Len(t, e.store.ProvisionCalls, 1)
}

func TestProvisionPlayer_AlreadyExists(t *testing.T) {
	e := newTestEngine(t)
	e.store.ProvisionFunc = func(rec *rating.RatingRecord) error {
		return rating.ErrAlreadyExists
	}

	_, err := e.ProvisionPlayer("player-a", "Alice")
	assert.ErrorIs(t, err, rating.ErrAlreadyExists)
}

func TestGetPlacement_ClassifiesRecord(t *testing.T) {
	e := newTestEngine(t)
	rec := record(e.model, "player-a")
	rec.Rating = 2100
	rec.Uncertainty = 80
	rec.ConservativeRating = 2100 - 3*80
	rec.MatchesPlayed = 90
	e.store.GetFunc = func(playerID string) (*rating.RatingRecord, error) {
		return rec, nil
	}

	placement, err := e.GetPlacement("player-a")
	require.NoError(t, err)
	assert.Equal(t, tier.Diamond, placement.Placement.Tier)
	assert.Equal(t, tier.BandProven, placement.Placement.Band)
}

func TestLeaderboard_RanksInStoreOrder(t *testing.T) {
	e := newTestEngine(t)
	first := record(e.model, "player-a")
	first.ConservativeRating = 2000
	second := record(e.model, "player-b")
	second.ConservativeRating = 1500
	e.store.ListFunc = func(limit int) ([]*rating.RatingRecord, error) {
		return []*rating.RatingRecord{first, second}, nil
	}

	entries, err := e.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "player-a", entries[0].Player.PlayerID)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestListPlayers_ClassifiesRecords(t *testing.T) {
	e := newTestEngine(t)
	rec := record(e.model, "player-a")
	rec.Rating = 2100
	rec.Uncertainty = 80
	rec.ConservativeRating = 2100 - 3*80
	rec.MatchesPlayed = 90
	e.store.ListFunc = func(limit int) ([]*rating.RatingRecord, error) {
		assert.Equal(t, 25, limit)
		return []*rating.RatingRecord{rec}, nil
	}

	players, err := e.ListPlayers(25)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "player-a", players[0].Player.PlayerID)
	assert.Equal(t, tier.Diamond, players[0].Placement.Tier)
}

func TestOnMatchProposed_DeliversPoolProposals(t *testing.T) {
	e := newTestEngine(t)

	proposed := make(chan queue.MatchProposal, 1)
	confirmed := make(chan queue.MatchProposal, 1)
	e.OnMatchProposed(func(prop queue.MatchProposal) {
		proposed <- prop
	})
	e.OnMatchConfirmed(func(prop queue.MatchProposal) {
		confirmed <- prop
	})

	e.pool.ProposedCh <- queue.MatchProposal{ID: "prop-1", PlayerA: "player-a", PlayerB: "player-b"}
	e.pool.ConfirmedCh <- queue.MatchProposal{ID: "prop-1", PlayerA: "player-a", PlayerB: "player-b"}

	select {
	case prop := <-proposed:
		assert.Equal(t, "prop-1", prop.ID)
	case <-time.After(time.Second):
		t.Fatal("proposal callback never fired")
	}
	select {
	case prop := <-confirmed:
		assert.Equal(t, "prop-1", prop.ID)
	case <-time.After(time.Second):
		t.Fatal("confirmation callback never fired")
	}
}

func TestEnqueueSearch_BuildsSnapshotFromRecord(t *testing.T) {
	e := newTestEngine(t)
	archetype := "control"
	rec := record(e.model, "player-a")
	rec.Rating = 1700
	rec.Uncertainty = 90
	rec.ConservativeRating = 1700 - 3*90
	rec.MatchesPlayed = 40
	rec.DeckArchetype = &archetype
	rec.Playstyle = []float64{0.2, 0.8}
	e.store.GetFunc = func(playerID string) (*rating.RatingRecord, error) {
		return rec, nil
	}

	_, err := e.EnqueueSearch("player-a", queue.Preferences{SkillRange: queue.PresetBalanced, Region: "eu-west"})
	require.NoError(t, err)

	require.Len(t, e.pool.EnqueueCalls, 1)
	snap := e.pool.EnqueueCalls[0].Snapshot
	assert.Equal(t, 1700.0, snap.Rating)
	assert.Equal(t, tier.BandEstablished, snap.Band)
	assert.Equal(t, &archetype, snap.Archetype)
	assert.Equal(t, []float64{0.2, 0.8}, snap.Playstyle)
}

func TestEnqueueSearch_UnknownPlayer(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.EnqueueSearch("ghost", queue.Preferences{SkillRange: queue.PresetWide, Region: "eu-west"})
	assert.ErrorIs(t, err, rating.ErrUnknownPlayer)
	assert.Empty(t, e.pool.EnqueueCalls)
}

func TestQueuePassthrough(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.CancelSearch("sess-1"))
	assert.Equal(t, []string{"sess-1"}, e.pool.CancelCalls)

	_, err := e.SearchStatus("sess-1")
	require.NoError(t, err)

	require.NoError(t, e.RespondToProposal("sess-1", "prop-1", true))
	require.Len(t, e.pool.RespondCalls, 1)
	assert.True(t, e.pool.RespondCalls[0].Accept)
}
