package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/konivrer/ranked/internal/rating"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"DB_NAME"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	if url, ok := os.LookupEnv("TURSO_PRIMARY_URL"); ok {
		config["TURSO_PRIMARY_URL"] = url
		config["TURSO_AUTH_TOKEN"] = os.Getenv("TURSO_AUTH_TOKEN")
	}
	return config
}

var archetypes = []string{"aggro", "control", "combo", "midrange", "tempo"}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	dsn := "file:" + cfg["DB_NAME"]
	if url, ok := cfg["TURSO_PRIMARY_URL"]; ok {
		dsn = fmt.Sprintf("%s?authToken=%s", url, cfg["TURSO_AUTH_TOKEN"])
	}
	db, err := sql.Open("libsql", dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}

	log.Info("Successfully connected to the database.")

	modelCfg := rating.DefaultConfig()

	const numPlayers = 500
	const batchSize = 100

	log.Info("Preparing to insert dummy players...", "total", numPlayers, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*14) // 14 columns per player
	playerIDs := make([]string, 0, numPlayers)

	for i := 0; i < numPlayers; i++ {
		playerID := uuid.NewString()
		playerIDs = append(playerIDs, playerID)

		// Spread ratings around the default and shrink uncertainty with
		// the simulated match count so every band shows up.
		matches := rand.Intn(120)
		ratingValue := modelCfg.InitialRating + rand.NormFloat64()*250
		if ratingValue < modelCfg.RatingFloor {
			ratingValue = modelCfg.RatingFloor
		}
		uncertainty := modelCfg.InitialUncertainty
		for j := 0; j < matches; j++ {
			uncertainty = uncertainty * modelCfg.UncertaintyDecay
			if uncertainty < modelCfg.UncertaintyFloor {
				uncertainty = modelCfg.UncertaintyFloor
				break
			}
		}
		conservative := ratingValue - modelCfg.ConservativeK*uncertainty

		wins := rand.Intn(matches + 1)
		draws := rand.Intn(matches - wins + 1)
		losses := matches - wins - draws

		playstyle := []float64{rand.Float64()*2 - 1, rand.Float64()*2 - 1, rand.Float64()*2 - 1}
		playstyleBlob, _ := msgpack.Marshal(playstyle)

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			playerID,
			fmt.Sprintf("Seeded Player %d", i+1),
			ratingValue,
			uncertainty,
			conservative,
			matches,
			wins,
			losses,
			draws,
			rand.Intn(11)-5, // current_streak
			ratingValue+rand.Float64()*100,
			time.Now().Add(-time.Duration(rand.Intn(90*24))*time.Hour).Unix(),
			archetypes[rand.Intn(len(archetypes))],
			playstyleBlob,
		)

		if (i+1)%batchSize == 0 || (i+1) == numPlayers {
			stmt := fmt.Sprintf(`
				INSERT INTO players (id, name, rating, uncertainty, conservative_rating, matches_played,
					wins, losses, draws, current_streak, season_peak_rating, last_played_at,
					deck_archetype, playstyle_blob)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*14)
			log.Info("Inserted batch", "completed", i+1, "total", numPlayers)
		}
	}

	// A little match history so the results table is not empty.
	const numResults = 2000
	outcomes := []string{"A_WIN", "B_WIN", "DRAW"}
	for i := 0; i < numResults; i++ {
		a := playerIDs[rand.Intn(len(playerIDs))]
		b := playerIDs[rand.Intn(len(playerIDs))]
		if a == b {
			continue
		}
		delta := rand.Float64()*40 - 20
		_, err := tx.Exec(`
			INSERT INTO match_results (id, player_a, player_b, outcome, delta_a, delta_b, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?);`,
			uuid.NewString(), a, b, outcomes[rand.Intn(len(outcomes))], delta, -delta,
			time.Now().Add(-time.Duration(rand.Intn(180*24))*time.Hour).Unix(),
		)
		if err != nil {
			tx.Rollback()
			log.Fatalf("Failed to insert match result: %s", err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded players and match history.", "duration", duration)
}
