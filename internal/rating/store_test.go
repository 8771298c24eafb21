package rating_test

import (
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/konivrer/ranked/internal/database"
	"github.com/konivrer/ranked/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (rating.Store, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := rating.NewStore(db)
	return store, db, dbTeardown
}

func TestProvisionAndGet(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	model := rating.NewModel(rating.DefaultConfig())
	rec := model.NewRecord("p1", "Player One")
	require.NoError(t, store.Provision(rec))

	got, err := store.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PlayerID)
	assert.Equal(t, 1500.0, got.Rating)
	assert.Equal(t, 350.0, got.Uncertainty)
	assert.Equal(t, 450.0, got.ConservativeRating)
	assert.Equal(t, 0, got.MatchesPlayed)
}

func TestProvisionTwiceFails(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	model := rating.NewModel(rating.DefaultConfig())
	require.NoError(t, store.Provision(model.NewRecord("p1", "Player One")))
	err := store.Provision(model.NewRecord("p1", "Player One Again"))
	assert.ErrorIs(t, err, rating.ErrAlreadyExists)
}

func TestGetUnknownPlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.Get("ghost")
	assert.ErrorIs(t, err, rating.ErrUnknownPlayer)

	err = store.ApplyResult("ghost", "phantom", func(a, b *rating.RatingRecord) (*rating.MatchResult, error) {
		t.Fatal("apply must not run for unknown players")
		return nil, nil
	})
	assert.ErrorIs(t, err, rating.ErrUnknownPlayer)
}

func TestApplyResultRoundTrip(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	model := rating.NewModel(rating.DefaultConfig())
	require.NoError(t, store.Provision(model.NewRecord("a", "Player A")))
	require.NoError(t, store.Provision(model.NewRecord("b", "Player B")))

	err := store.ApplyResult("a", "b", func(a, b *rating.RatingRecord) (*rating.MatchResult, error) {
		if err := model.RecordResult(a, b, rating.OutcomeAWin); err != nil {
			return nil, err
		}
		return &rating.MatchResult{
			ID:        "r1",
			PlayerA:   a.PlayerID,
			PlayerB:   b.PlayerID,
			Outcome:   rating.OutcomeAWin,
			DeltaA:    a.Rating - 1500,
			DeltaB:    b.Rating - 1500,
			CreatedAt: time.Now().Unix(),
		}, nil
	})
	require.NoError(t, err)

	gotA, err := store.Get("a")
	require.NoError(t, err)
	assert.Greater(t, gotA.Rating, 1500.0)
	assert.Equal(t, 1, gotA.Wins)
	assert.Equal(t, 1, gotA.MatchesPlayed)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM match_results").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestApplyResultFailedInsertRollsBack(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	model := rating.NewModel(rating.DefaultConfig())
	require.NoError(t, store.Provision(model.NewRecord("a", "Player A")))
	require.NoError(t, store.Provision(model.NewRecord("b", "Player B")))

	submit := func() error {
		return store.ApplyResult("a", "b", func(a, b *rating.RatingRecord) (*rating.MatchResult, error) {
			if err := model.RecordResult(a, b, rating.OutcomeAWin); err != nil {
				return nil, err
			}
			return &rating.MatchResult{ID: "r1", PlayerA: "a", PlayerB: "b", Outcome: rating.OutcomeAWin, CreatedAt: time.Now().Unix()}, nil
		})
	}
	require.NoError(t, submit())
	require.Error(t, submit(), "reusing a result ID must fail the history insert")

	// The failed transaction must have rolled the player updates back too.
	gotA, err := store.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, gotA.MatchesPlayed)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM match_results").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestApplyResultSerializesConcurrentSubmissions(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	model := rating.NewModel(rating.DefaultConfig())
	require.NoError(t, store.Provision(model.NewRecord("hub", "Hub")))
	const opponents = 16
	for i := 0; i < opponents; i++ {
		require.NoError(t, store.Provision(model.NewRecord(fmt.Sprintf("opp-%d", i), "Opponent")))
	}

	var wg sync.WaitGroup
	for i := 0; i < opponents; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.ApplyResult("hub", fmt.Sprintf("opp-%d", i), func(a, b *rating.RatingRecord) (*rating.MatchResult, error) {
				if err := model.RecordResult(a, b, rating.OutcomeAWin); err != nil {
					return nil, err
				}
				return &rating.MatchResult{
					ID:        uuid.NewString(),
					PlayerA:   a.PlayerID,
					PlayerB:   b.PlayerID,
					Outcome:   rating.OutcomeAWin,
					CreatedAt: time.Now().Unix(),
				}, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// Every submission must land on the state the previous one
	// committed; lost updates would leave the counts short.
	hub, err := store.Get("hub")
	require.NoError(t, err)
	assert.Equal(t, opponents, hub.MatchesPlayed)
	assert.Equal(t, opponents, hub.Wins)
}

func TestUpdateProfileAndRoundTrip(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	model := rating.NewModel(rating.DefaultConfig())
	require.NoError(t, store.Provision(model.NewRecord("p1", "Player One")))

	archetype := "aggro"
	require.NoError(t, store.UpdateProfile("p1", &archetype, []float64{0.8, 0.1, 0.4}))

	got, err := store.Get("p1")
	require.NoError(t, err)
	require.NotNil(t, got.DeckArchetype)
	assert.Equal(t, "aggro", *got.DeckArchetype)
	assert.Equal(t, []float64{0.8, 0.1, 0.4}, got.Playstyle)

	err = store.UpdateProfile("ghost", &archetype, nil)
	assert.ErrorIs(t, err, rating.ErrUnknownPlayer)
}

func TestListOrderedByConservativeRating(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	_, err := db.Exec(`INSERT INTO players (id, name, rating, uncertainty, conservative_rating) VALUES
		('low', 'Low', 1400, 300, 500),
		('high', 'High', 1900, 60, 1720),
		('mid', 'Mid', 1700, 150, 1250)`)
	require.NoError(t, err)

	records, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "high", records[0].PlayerID)
	assert.Equal(t, "mid", records[1].PlayerID)
	assert.Equal(t, "low", records[2].PlayerID)
}

func TestResetSeasonPeaks(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	_, err := db.Exec(`INSERT INTO players (id, name, rating, season_peak_rating) VALUES ('p1', 'One', 1600, 1850)`)
	require.NoError(t, err)

	require.NoError(t, store.ResetSeasonPeaks())

	got, err := store.Get("p1")
	require.NoError(t, err)
	assert.Equal(t, 1600.0, got.SeasonPeakRating)
}
