package rating

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// NewStore creates a rating store backed by the given database.
func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Provision(rec *RatingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playstyleBlob, err := msgpack.Marshal(rec.Playstyle)
	if err != nil {
		return fmt.Errorf("failed to marshal playstyle: %w", err)
	}

	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO players (
			id, name, rating, uncertainty, conservative_rating,
			matches_played, wins, losses, draws, current_streak,
			season_peak_rating, last_played_at, deck_archetype, playstyle_blob
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.PlayerID, rec.Name, rec.Rating, rec.Uncertainty, rec.ConservativeRating,
		rec.MatchesPlayed, rec.Wins, rec.Losses, rec.Draws, rec.CurrentStreak,
		rec.SeasonPeakRating, rec.LastPlayedAt, rec.DeckArchetype, playstyleBlob,
	)
	if err != nil {
		return fmt.Errorf("failed to provision player: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("player %s: %w", rec.PlayerID, ErrAlreadyExists)
	}

	log.Info("Provisioned player", "playerID", rec.PlayerID, "rating", rec.Rating)
	return nil
}

func (s *store) Get(playerID string) (*RatingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(s.db, playerID)
}

// ApplyResult holds the store lock across the whole read-modify-write,
// so concurrent submissions sharing a player serialize and each one
// computes from the state the previous one committed.
func (s *store) ApplyResult(playerA, playerB string, apply func(a, b *RatingRecord) (*MatchResult, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.get(s.db, playerA)
	if err != nil {
		return err
	}
	b, err := s.get(s.db, playerB)
	if err != nil {
		return err
	}

	result, err := apply(a, b)
	if err != nil {
		return err
	}
	return s.saveResult(a, b, result)
}

// querier lets get run against either the pool or an open transaction.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *store) get(q querier, playerID string) (*RatingRecord, error) {
	row := q.QueryRow(`
		SELECT id, name, rating, uncertainty, conservative_rating,
		       matches_played, wins, losses, draws, current_streak,
		       season_peak_rating, last_played_at, deck_archetype, playstyle_blob
		FROM players
		WHERE id = ?`, playerID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return rec, nil
}

// saveResult commits both updated records and the history row in one
// transaction. Callers hold the store lock.
func (s *store) saveResult(a, b *RatingRecord, result *MatchResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		UPDATE players SET
			rating = ?, uncertainty = ?, conservative_rating = ?,
			matches_played = ?, wins = ?, losses = ?, draws = ?,
			current_streak = ?, season_peak_rating = ?, last_played_at = ?
		WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare update: %w", err)
	}
	defer stmt.Close()

	for _, rec := range []*RatingRecord{a, b} {
		res, err := stmt.Exec(
			rec.Rating, rec.Uncertainty, rec.ConservativeRating,
			rec.MatchesPlayed, rec.Wins, rec.Losses, rec.Draws,
			rec.CurrentStreak, rec.SeasonPeakRating, rec.LastPlayedAt,
			rec.PlayerID,
		)
		if err != nil {
			return fmt.Errorf("failed to update player %s: %w", rec.PlayerID, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("player %s: %w", rec.PlayerID, ErrUnknownPlayer)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO match_results (id, player_a, player_b, outcome, delta_a, delta_b, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.PlayerA, result.PlayerB, string(result.Outcome),
		result.DeltaA, result.DeltaB, result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match result: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit result transaction: %w", err)
	}

	log.Info("Saved match result", "resultID", result.ID, "playerA", a.PlayerID, "playerB", b.PlayerID, "outcome", result.Outcome)
	return nil
}

func (s *store) UpdateProfile(playerID string, archetype *string, playstyle []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	playstyleBlob, err := msgpack.Marshal(playstyle)
	if err != nil {
		return fmt.Errorf("failed to marshal playstyle: %w", err)
	}

	res, err := s.db.Exec(`UPDATE players SET deck_archetype = ?, playstyle_blob = ? WHERE id = ?`,
		archetype, playstyleBlob, playerID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
	}
	return nil
}

func (s *store) List(limit int) ([]*RatingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, rating, uncertainty, conservative_rating,
		       matches_played, wins, losses, draws, current_streak,
		       season_peak_rating, last_played_at, deck_archetype, playstyle_blob
		FROM players
		ORDER BY conservative_rating DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var records []*RatingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *store) ResetSeasonPeaks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`UPDATE players SET season_peak_rating = rating`)
	if err != nil {
		return fmt.Errorf("failed to reset season peaks: %w", err)
	}
	log.Info("Reset season peak ratings")
	return nil
}

func scanRecord(scanner interface{ Scan(...any) error }) (*RatingRecord, error) {
	var rec RatingRecord
	var archetype sql.NullString
	var playstyleBlob []byte

	err := scanner.Scan(
		&rec.PlayerID, &rec.Name, &rec.Rating, &rec.Uncertainty, &rec.ConservativeRating,
		&rec.MatchesPlayed, &rec.Wins, &rec.Losses, &rec.Draws, &rec.CurrentStreak,
		&rec.SeasonPeakRating, &rec.LastPlayedAt, &archetype, &playstyleBlob,
	)
	if err != nil {
		return nil, err
	}

	if archetype.Valid {
		rec.DeckArchetype = &archetype.String
	}
	if len(playstyleBlob) > 0 {
		if err := msgpack.Unmarshal(playstyleBlob, &rec.Playstyle); err != nil {
			log.Warn("Failed to unmarshal playstyle blob", "playerID", rec.PlayerID, "error", err)
		}
	}
	return &rec, nil
}
