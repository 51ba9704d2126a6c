package rules

import (
	"regexp"
	"strings"

	"github.com/benvon/smart-task-parser/internal/names"
)

var (
	mentionPattern  = regexp.MustCompile(`@(\w+)`)
	assignToPattern = regexp.MustCompile(`(?i)\bassign(?:ed)?\s+to\s+(\w+)`)

	// titleCaseRun matches runs of capitalized words such as "Aman" or "John Smith"
	titleCaseRun = regexp.MustCompile(`(?:^|[^\p{L}])(\p{Lu}\p{Ll}+(?:[ \t]+\p{Lu}\p{Ll}+)*)`)
)

// calendarWords are capitalized words that are never person names
var calendarWords = map[string]struct{}{
	"jan": {}, "january": {}, "feb": {}, "february": {}, "mar": {}, "march": {},
	"apr": {}, "april": {}, "may": {}, "jun": {}, "june": {}, "jul": {}, "july": {},
	"aug": {}, "august": {}, "sep": {}, "sept": {}, "september": {}, "oct": {}, "october": {},
	"nov": {}, "november": {}, "dec": {}, "december": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {}, "friday": {},
	"saturday": {}, "sunday": {}, "today": {}, "tomorrow": {},
}

// PersonRecognizer finds candidate person names in free text
type PersonRecognizer interface {
	People(text string) []string
}

// PersonRecognizerFunc adapts a function to PersonRecognizer
type PersonRecognizerFunc func(text string) []string

// People implements PersonRecognizer
func (f PersonRecognizerFunc) People(text string) []string {
	return f(text)
}

// TitleCaseRecognizer treats every run of capitalized words, minus month and
// weekday names, as a candidate name. It over-reports; the dictionary filters.
type TitleCaseRecognizer struct{}

// People implements PersonRecognizer
func (TitleCaseRecognizer) People(text string) []string {
	var people []string
	for _, m := range titleCaseRun.FindAllStringSubmatch(text, -1) {
		words := strings.Fields(m[1])
		kept := words[:0]
		for _, w := range words {
			if _, skip := calendarWords[strings.ToLower(w)]; !skip {
				kept = append(kept, w)
			}
		}
		if len(kept) > 0 {
			people = append(people, strings.Join(kept, " "))
		}
	}
	return people
}

// AssigneeExtractor finds the person a task is assigned to, restricted to a
// dictionary of known names.
type AssigneeExtractor struct {
	dict       names.Dictionary
	recognizer PersonRecognizer
}

// NewAssigneeExtractor creates an extractor; a nil recognizer means TitleCaseRecognizer
func NewAssigneeExtractor(dict names.Dictionary, recognizer PersonRecognizer) *AssigneeExtractor {
	if recognizer == nil {
		recognizer = TitleCaseRecognizer{}
	}
	return &AssigneeExtractor{dict: dict, recognizer: recognizer}
}

// Extract returns the capitalized assignee name, or nil.
// Recognized names are tried first, then "@name", then "assign(ed) to name".
func (e *AssigneeExtractor) Extract(text string) *string {
	for _, person := range e.recognizer.People(text) {
		if n, ok := e.dict.MatchWithin(person); ok {
			return capitalized(n)
		}
	}
	for _, p := range []*regexp.Regexp{mentionPattern, assignToPattern} {
		m := p.FindStringSubmatch(text)
		if m != nil && e.dict.Contains(m[1]) {
			return capitalized(m[1])
		}
	}
	return nil
}

func capitalized(name string) *string {
	s := names.Capitalize(name)
	return &s
}
