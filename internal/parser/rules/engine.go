// Package rules implements the deterministic, pattern-matching task parser.
package rules

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/benvon/smart-task-parser/internal/names"
	"go.uber.org/zap"
)

// Engine parses a sentence into exactly one task using the rule-based extractors.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	dates     *DateTimeExtractor
	assignees *AssigneeExtractor
	titles    *TaskNameExtractor
	logger    *zap.Logger
}

type options struct {
	now        func() time.Time
	dict       names.Dictionary
	recognizer PersonRecognizer
	logger     *zap.Logger
}

// Option configures an Engine
type Option func(*options)

// WithClock sets the clock used to resolve relative dates
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDictionary replaces the built-in name dictionary
func WithDictionary(dict names.Dictionary) Option {
	return func(o *options) { o.dict = dict }
}

// WithRecognizer replaces the default person-name recognizer
func WithRecognizer(r PersonRecognizer) Option {
	return func(o *options) { o.recognizer = r }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewEngine creates a rule-based engine
func NewEngine(opts ...Option) *Engine {
	o := options{
		now:  time.Now,
		dict: names.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Engine{
		dates:     NewDateTimeExtractor(o.now),
		assignees: NewAssigneeExtractor(o.dict, o.recognizer),
		titles:    NewTaskNameExtractor(o.dict),
		logger:    o.logger,
	}
}

// Parse extracts a single task from text. It never returns an error; failures
// are reported in the result.
func (e *Engine) Parse(_ context.Context, text string) models.ParseResult {
	task, err := e.Extract(text)
	if err != nil {
		return models.Failed(models.MethodRuleBased, err)
	}
	return models.Succeeded(models.MethodRuleBased, []models.ParsedTask{task})
}

// Extract runs every extractor over text. A panic inside an extractor is
// reported as ErrInternalExtraction.
func (e *Engine) Extract(text string) (task models.ParsedTask, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("rule_extraction_panic",
				zap.Any("panic", r),
				zap.Int("text_length", len(text)),
			)
			task = models.ParsedTask{}
			err = fmt.Errorf("%w: %v", models.ErrInternalExtraction, r)
		}
	}()

	priority := ExtractPriority(text)
	dueDate, dueTime := e.dates.Extract(text)
	assignee := e.assignees.Extract(text)
	taskName := e.titles.Extract(text)

	confidence := Score(Signals{
		Priority: priority != models.DefaultPriority,
		Date:     dueDate != nil,
		Time:     dueTime != nil,
		Assignee: assignee != nil,
	})

	return models.ParsedTask{
		TaskName:      taskName,
		Assignee:      assignee,
		DueDate:       dueDate,
		DueTime:       dueTime,
		Priority:      priority,
		Status:        models.TaskStatusPending,
		Completed:     false,
		Confidence:    confidence,
		OriginalText:  text,
		ParsingMethod: models.MethodRuleBased,
	}, nil
}
