package rules

import (
	"math"
	"time"
)

// fixedNow is Sunday 15 June 2025, 10:00 UTC
var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
