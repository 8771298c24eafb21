package tier

// Tier is a ladder tier, ordered from Bronze up to Mythic.
type Tier int

const (
	Bronze Tier = iota
	Silver
	Gold
	Platinum
	Diamond
	Master
	Grandmaster
	Mythic
)

var tierNames = [...]string{"bronze", "silver", "gold", "platinum", "diamond", "master", "grandmaster", "mythic"}

func (t Tier) String() string {
	if t < Bronze || t > Mythic {
		return "unknown"
	}
	return tierNames[t]
}

// Division subdivides a tier. III is the entry division, I the highest.
// Mythic is undivided and reports DivisionNone.
type Division int

const (
	DivisionNone Division = iota
	DivisionIII
	DivisionII
	DivisionI
)

var divisionNames = [...]string{"", "III", "II", "I"}

func (d Division) String() string {
	if d < DivisionNone || d > DivisionI {
		return ""
	}
	return divisionNames[d]
}

// Band is the confidence band: how much evidence backs the rating.
type Band int

const (
	BandUncertain Band = iota
	BandDeveloping
	BandEstablished
	BandProven
)

var bandNames = [...]string{"uncertain", "developing", "established", "proven"}

func (b Band) String() string {
	if b < BandUncertain || b > BandProven {
		return "unknown"
	}
	return bandNames[b]
}

// Placement is the derived display classification for a record. It is
// never persisted; it is recomputed from the record on demand.
type Placement struct {
	Tier            Tier     `json:"-"`
	TierName        string   `json:"tier"`
	Division        Division `json:"-"`
	DivisionName    string   `json:"division,omitempty"`
	Band            Band     `json:"-"`
	BandName        string   `json:"confidence_band"`
	ProgressPercent float64  `json:"progress_percent"`
}
