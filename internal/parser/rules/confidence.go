package rules

const (
	// BaseConfidence is the score of a parse where no signal fired
	BaseConfidence = 0.5
	// SignalWeight is added for every signal that fired
	SignalWeight = 0.1
)

// Signals records which extractors found something
type Signals struct {
	Priority bool // a priority other than the default
	Date     bool
	Time     bool
	Assignee bool
}

// Score returns an additive heuristic of how much of the input was structured.
// It is not a probability and is not clamped; the maximum is 0.9.
func Score(s Signals) float64 {
	score := BaseConfidence
	for _, fired := range []bool{s.Priority, s.Date, s.Time, s.Assignee} {
		if fired {
			score += SignalWeight
		}
	}
	return score
}
