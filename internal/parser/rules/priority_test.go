package rules

import (
	"testing"

	"github.com/benvon/smart-task-parser/internal/models"
)

func TestExtractPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want models.Priority
	}{
		{"Fix login bug P1", models.PriorityP1},
		{"fix login bug p2", models.PriorityP2},
		{"Deploy, P4", models.PriorityP4},
		{"Deploy P3", models.PriorityP3},
		{"Deploy priority 1", models.PriorityP1},
		{"Deploy Priority2", models.PriorityP2},
		{"Deploy PRIORITY   4", models.PriorityP4},
		{"Deploy with high priority", models.PriorityP3},
		{"Deploy P5", models.PriorityP3},
		{"Deploy P12", models.PriorityP3},
		{"Deploy MP1 board", models.PriorityP3},
		{"P2 first then P1", models.PriorityP2},
		{"", models.PriorityP3},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			if got := ExtractPriority(tt.text); got != tt.want {
				t.Errorf("ExtractPriority(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestStripPriority_RemovesEveryToken(t *testing.T) {
	t.Parallel()

	got := stripPriority("P1 ship it priority 2 now P4")
	if priorityPattern.MatchString(got) {
		t.Errorf("stripPriority left a priority token in %q", got)
	}
}
