package rules

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/benvon/smart-task-parser/internal/names"
)

// maxStripPasses bounds re-stripping when a removal exposes a new match
const maxStripPasses = 3

// TaskNameExtractor derives the task title by removing everything the other
// extractors recognize.
type TaskNameExtractor struct {
	mentions *regexp.Regexp // nil when the dictionary is empty
}

// NewTaskNameExtractor creates an extractor that strips mentions of names in dict
func NewTaskNameExtractor(dict names.Dictionary) *TaskNameExtractor {
	e := &TaskNameExtractor{}
	if dict.Len() == 0 {
		return e
	}
	quoted := make([]string, 0, dict.Len())
	for _, n := range dict.Names() {
		quoted = append(quoted, regexp.QuoteMeta(n))
	}
	alt := strings.Join(quoted, "|")
	e.mentions = regexp.MustCompile(`(?i)@(?:` + alt + `)\b|\bassign(?:ed)?\s+to\s+(?:` + alt + `)\b`)
	return e
}

// Extract returns the residual title, or "Untitled Task" when nothing remains
func (e *TaskNameExtractor) Extract(text string) string {
	name := text
	for i := 0; i < maxStripPasses; i++ {
		next := e.strip(name)
		if next == name {
			break
		}
		name = next
	}
	if name == "" {
		return models.UntitledTask
	}
	return name
}

func (e *TaskNameExtractor) strip(text string) string {
	text = stripPriority(text)
	text = stripDates(text)
	text = stripTimes(text)
	if e.mentions != nil {
		text = e.mentions.ReplaceAllString(text, "")
	}
	text = strings.Join(strings.Fields(text), " ")
	return strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(",.;:!?-", r)
	})
}
