package risk

// Level is the ordinal risk tier derived from an expiry probability.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Tier cut points. Policy values surfaced on the dashboard ("High Risk
// >70%", "Medium Risk 30-70%"): tune here, not in scoring code.
const (
	MediumThreshold = 0.30
	HighThreshold   = 0.70
)

// Classify maps a probability to exactly one tier. Lower bounds are
// inclusive, upper bounds exclusive except the top tier.
func Classify(probability float64) Level {
	switch {
	case probability >= HighThreshold:
		return LevelHigh
	case probability >= MediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

// NeedsAttention reports whether the tier qualifies for the at-risk
// dashboard and supplier notification.
func (l Level) NeedsAttention() bool {
	return l == LevelMedium || l == LevelHigh
}
