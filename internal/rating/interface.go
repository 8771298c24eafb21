package rating

// Store defines persistence for rating records. Implementations must give
// atomic read-then-write semantics per player: ApplyResult holds both
// records exclusively from read through commit, so concurrent
// submissions touching a shared player apply strictly one after another.
type Store interface {
	// Provision creates the explicit default record for a new player.
	// Fails with ErrAlreadyExists if the player is known.
	Provision(rec *RatingRecord) error

	// Get retrieves a record, failing with ErrUnknownPlayer if absent.
	Get(playerID string) (*RatingRecord, error)

	// ApplyResult runs one result submission as a single critical
	// section: both records are loaded, apply mutates them and returns
	// the history row, and the updated records plus that row commit in
	// one transaction. No other write interleaves between the read and
	// the commit.
	ApplyResult(playerA, playerB string, apply func(a, b *RatingRecord) (*MatchResult, error)) error

	// UpdateProfile sets the matchmaking profile fields for a player.
	UpdateProfile(playerID string, archetype *string, playstyle []float64) error

	// List returns all records ordered by conservative rating, best first.
	List(limit int) ([]*RatingRecord, error)

	// ResetSeasonPeaks sets every player's peak back to their current
	// rating. Season boundary scheduling is the caller's problem.
	ResetSeasonPeaks() error
}
