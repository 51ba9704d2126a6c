// Package names holds the allowlist of person names that gates assignee recognition.
package names

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultNames is the built-in allowlist, spanning common Western and South-Asian first names
var defaultNames = []string{
	"john", "jane", "mike", "sarah", "david", "emma", "alex", "lisa",
	"amit", "priya", "rahul", "neha", "aman", "kavya", "rohan", "anita",
	"rajeev", "sunita", "vijay", "meera", "arjun", "pooja", "kiran", "maya",
}

// Dictionary is an immutable, ordered set of lower-cased first names.
// The zero value is an empty dictionary.
type Dictionary struct {
	names []string
	set   map[string]struct{}
}

// New builds a dictionary from the given names. Entries are lower-cased and
// trimmed; blanks and duplicates are dropped and the first-seen order is kept.
func New(entries ...string) Dictionary {
	d := Dictionary{
		names: make([]string, 0, len(entries)),
		set:   make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		n := strings.ToLower(strings.TrimSpace(e))
		if n == "" {
			continue
		}
		if _, dup := d.set[n]; dup {
			continue
		}
		d.set[n] = struct{}{}
		d.names = append(d.names, n)
	}
	return d
}

// Default returns the built-in dictionary
func Default() Dictionary {
	return New(defaultNames...)
}

// file is the on-disk YAML shape:
//
//	names:
//	  - aman
//	  - priya
type file struct {
	Names []string `yaml:"names"`
}

// Load reads a dictionary from a YAML file
func Load(path string) (Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dictionary{}, fmt.Errorf("failed to read names file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document into a dictionary
func Parse(data []byte) (Dictionary, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Dictionary{}, fmt.Errorf("failed to parse names file: %w", err)
	}
	d := New(f.Names...)
	if d.Len() == 0 {
		return Dictionary{}, fmt.Errorf("names file contains no names")
	}
	return d, nil
}

// Len returns the number of names
func (d Dictionary) Len() int {
	return len(d.names)
}

// Names returns a copy of the names in dictionary order
func (d Dictionary) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Contains reports whether name is in the dictionary (case-insensitive)
func (d Dictionary) Contains(name string) bool {
	_, ok := d.set[strings.ToLower(name)]
	return ok
}

// MatchWithin returns the first dictionary name contained in candidate.
// "Amanda" matches "aman".
func (d Dictionary) MatchWithin(candidate string) (string, bool) {
	lower := strings.ToLower(candidate)
	for _, n := range d.names {
		if strings.Contains(lower, n) {
			return n, true
		}
	}
	return "", false
}

// Capitalize upper-cases the first letter of name and lower-cases the rest
func Capitalize(name string) string {
	if name == "" {
		return ""
	}
	lower := []rune(strings.ToLower(name))
	return strings.ToUpper(string(lower[0])) + string(lower[1:])
}
