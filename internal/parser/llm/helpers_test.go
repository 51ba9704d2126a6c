package llm

import (
	"context"
	"sync"
	"time"
)

// fixedNow is Sunday 15 June 2025, 10:00 UTC
var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// fakeCompleter returns canned content and records every request
type fakeCompleter struct {
	mu       sync.Mutex
	content  string
	err      error
	requests []CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.content, f.err
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}
