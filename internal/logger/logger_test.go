package logger

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		debugMode   bool
		development bool
		wantDebug   bool
	}{
		{"production info", false, false, false},
		{"production debug", true, false, true},
		{"development info", false, true, false},
		{"development debug", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, err := New(tt.debugMode, tt.development)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := l.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if !l.Core().Enabled(zapcore.InfoLevel) {
				t.Error("info level should always be enabled")
			}
		})
	}
}

func TestOrNopAndSync(t *testing.T) {
	t.Parallel()

	l := OrNop(nil)
	if l == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l.Info("discarded")
	Sync(nil)
	Sync(l)
}

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"empty", "", 10, ""},
		{"control characters removed", "a\x00b\x1bc", 10, "abc"},
		{"newlines kept", "a\nb\tc", 10, "a\nb\tc"},
		{"truncated", "abcdefghij", 4, "abcd..."},
		{"invalid utf8 repaired", "ok\xffok", 10, "okok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestSanitizeString_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	got := SanitizeString(strings.Repeat("é", 10), 5)
	if !utf8.ValidString(got) {
		t.Errorf("SanitizeString() = %q, not valid UTF-8", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("SanitizeString() = %q, want truncation marker", got)
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", MaxPreviewLength*2)
	if got := Preview(long, false); len(got) != MaxPreviewLength+3 {
		t.Errorf("Preview(debug=false) length = %d, want %d", len(got), MaxPreviewLength+3)
	}
	if got := Preview(long, true); got != long {
		t.Error("Preview(debug=true) should keep content under MaxDebugContentLength")
	}
}

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	if got := SanitizeError(nil); got != "" {
		t.Errorf("SanitizeError(nil) = %q, want empty", got)
	}
	if got := SanitizeError(errors.New("boom\x00")); got != "boom" {
		t.Errorf("SanitizeError() = %q, want boom", got)
	}
}

func TestSanitizeAPIKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                "",
		"short":           RedactedValue,
		"sk-1234567890ab": "sk-1" + RedactedValue + "90ab",
	}
	for in, want := range tests {
		if got := SanitizeAPIKey(in); got != want {
			t.Errorf("SanitizeAPIKey(%q) = %q, want %q", in, got, want)
		}
	}
}
