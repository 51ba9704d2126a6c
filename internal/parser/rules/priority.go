package rules

import (
	"regexp"

	"github.com/benvon/smart-task-parser/internal/models"
)

// priorityPattern matches "P1".."P4" and "priority 1".."priority 4"
var priorityPattern = regexp.MustCompile(`(?i)\b(?:p([1-4])|priority\s*([1-4]))\b`)

// ExtractPriority returns the first explicit priority in text, or P3 when there is none.
// An explicit 3 is indistinguishable from the default.
func ExtractPriority(text string) models.Priority {
	m := priorityPattern.FindStringSubmatch(text)
	if m == nil {
		return models.DefaultPriority
	}
	digit := m[1]
	if digit == "" {
		digit = m[2]
	}
	switch digit {
	case "1":
		return models.PriorityP1
	case "2":
		return models.PriorityP2
	case "4":
		return models.PriorityP4
	default:
		return models.DefaultPriority
	}
}

func stripPriority(text string) string {
	return priorityPattern.ReplaceAllString(text, "")
}
