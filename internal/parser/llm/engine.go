// Package llm implements the task parser backed by a remote completion service.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/smart-task-parser/internal/logger"
	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/benvon/smart-task-parser/internal/request"
	"go.uber.org/zap"
)

const (
	// DefaultTemperature keeps completions close to deterministic
	DefaultTemperature = 0.1
	// DefaultMaxTokens bounds the completion length
	DefaultMaxTokens = 500
)

// Mode selects whether a call may return several tasks
type Mode string

const (
	// ModeMulti extracts every task described in a paragraph
	ModeMulti Mode = "multi"
	// ModeSingle extracts exactly one task
	ModeSingle Mode = "single"
)

// ParseMode converts a mode name; "" means ModeMulti
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeMulti:
		return ModeMulti, nil
	case ModeSingle:
		return ModeSingle, nil
	default:
		return "", fmt.Errorf("invalid llm mode %q (must be %q or %q)", s, ModeMulti, ModeSingle)
	}
}

// CompletionRequest is one system+user exchange with the completion service
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int64
}

// Completer sends one completion request and returns the text content
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Engine parses text by prompting a Completer and validating its JSON output.
// It performs exactly one remote call per Parse and never retries.
type Engine struct {
	completer Completer
	mode      Mode
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithMode sets single- or multi-task extraction
func WithMode(mode Mode) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithClock sets the clock that supplies the current date in the prompt
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine. A nil completer yields an engine whose every
// call fails with ErrNotInitialized.
func NewEngine(completer Completer, opts ...Option) *Engine {
	e := &Engine{
		completer: completer,
		mode:      ModeMulti,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logger.OrNop(e.logger)
	return e
}

// Mode returns the engine's extraction mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// Parse extracts one or more tasks from text
func (e *Engine) Parse(ctx context.Context, text string) models.ParseResult {
	tasks, err := e.parse(ctx, text)
	if err != nil {
		e.logger.Warn("llm_parse_failed",
			zap.String("request_id", request.RequestIDFromContext(ctx)),
			zap.String("mode", string(e.mode)),
			zap.String("error", logger.SanitizeError(err)),
			zap.Bool("rate_limited", IsRateLimitError(err)),
			zap.Bool("quota_exceeded", IsQuotaError(err)),
		)
		return models.Failed(models.MethodLLM, err)
	}
	e.logger.Debug("llm_parse_completed",
		zap.String("request_id", request.RequestIDFromContext(ctx)),
		zap.String("mode", string(e.mode)),
		zap.Int("task_count", len(tasks)),
	)
	return models.Succeeded(models.MethodLLM, tasks)
}

func (e *Engine) parse(ctx context.Context, text string) ([]models.ParsedTask, error) {
	if e.completer == nil {
		return nil, models.ErrNotInitialized
	}

	content, err := e.completer.Complete(ctx, CompletionRequest{
		System:      systemPrompt,
		Prompt:      buildPrompt(text, e.now(), e.mode),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	})
	if err != nil {
		if errors.Is(err, models.ErrEmptyResponse) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to parse task: %w", err)
	}
	return decodeTasks(content, text, e.mode)
}

// today returns the engine clock's calendar date
func (e *Engine) today() string {
	return e.now().Format("2006-01-02")
}
