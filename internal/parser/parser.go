// Package parser selects a parsing strategy per call and reports the outcome
// as a models.ParseResult.
package parser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benvon/smart-task-parser/internal/logger"
	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/benvon/smart-task-parser/internal/request"
	"github.com/benvon/smart-task-parser/internal/telemetry"
	"github.com/benvon/smart-task-parser/internal/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds ParseBatch when no limit is configured
const DefaultBatchConcurrency = 4

// Engine is one parsing strategy
type Engine interface {
	Parse(ctx context.Context, text string) models.ParseResult
}

// Parser dispatches parse calls to the rule-based or LLM engine
type Parser struct {
	rules       Engine
	llm         Engine
	logger      *zap.Logger
	tracer      trace.Tracer
	concurrency int
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// WithTracer sets the tracer; the default is the global parser tracer
func WithTracer(t trace.Tracer) Option {
	return func(p *Parser) { p.tracer = t }
}

// WithBatchConcurrency bounds how many ParseBatch inputs run at once
func WithBatchConcurrency(n int) Option {
	return func(p *Parser) { p.concurrency = n }
}

// New creates a Parser. Either engine may be nil; calls routed to a missing
// engine fail with models.ErrNotInitialized.
func New(rules, llm Engine, opts ...Option) *Parser {
	p := &Parser{
		rules:       rules,
		llm:         llm,
		concurrency: DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logger.OrNop(p.logger)
	if p.tracer == nil {
		p.tracer = telemetry.Tracer()
	}
	if p.concurrency < 1 {
		p.concurrency = 1
	}
	return p
}

// Parse extracts tasks from text with the given method. Blank text is
// rejected before any engine runs.
func (p *Parser) Parse(ctx context.Context, text string, method models.Method) models.ParseResult {
	ctx, requestID := request.EnsureRequestID(ctx)

	ctx, span := p.tracer.Start(ctx, "parser.Parse", trace.WithAttributes(
		attribute.String("parser.method", string(method)),
		attribute.Int("parser.text_length", len(text)),
		attribute.String("request.id", requestID),
	))
	defer span.End()

	start := time.Now()
	result := p.dispatch(ctx, text, method)

	span.SetAttributes(
		attribute.Bool("parser.success", result.Success),
		attribute.Int("parser.task_count", len(result.Tasks)),
	)
	if !result.Success {
		span.SetStatus(codes.Error, result.Error)
	}

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", string(method)),
		zap.Bool("success", result.Success),
		zap.Int("task_count", len(result.Tasks)),
		zap.Duration("duration", time.Since(start)),
	}
	if result.Success {
		p.logger.Info("parse_completed", fields...)
	} else {
		p.logger.Warn("parse_completed", append(fields,
			zap.String("error", logger.SanitizeString(result.Error, logger.MaxErrorMessageLength)))...)
	}
	return result
}

func (p *Parser) dispatch(ctx context.Context, text string, method models.Method) models.ParseResult {
	if strings.TrimSpace(text) == "" {
		return models.Failed(method, models.ErrEmptyText)
	}

	var engine Engine
	switch method {
	case models.MethodRuleBased:
		engine = p.rules
	case models.MethodLLM:
		engine = p.llm
	default:
		return models.Failed(method, fmt.Errorf("%w: %q", models.ErrInvalidMethod, method))
	}
	if engine == nil {
		return models.Failed(method, fmt.Errorf("%w: no %s engine configured", models.ErrNotInitialized, method))
	}

	result := engine.Parse(ctx, text)
	if !result.Success {
		return result
	}
	for i, task := range result.Tasks {
		if err := validation.ValidateTask(task); err != nil {
			return models.Failed(method, fmt.Errorf("task %d: %w", i, err))
		}
	}
	return result
}

// ParseString is Parse for caller-supplied method names. The request is
// validated first; engines receive the text unchanged.
func (p *Parser) ParseString(ctx context.Context, text, method string) models.ParseResult {
	req := validation.ParseRequest{Text: text, Method: method}
	if err := validation.ValidateParseRequest(&req); err != nil {
		p.logger.Warn("parse_request_invalid",
			zap.String("method", method),
			zap.Error(err),
		)
		return models.Failed(models.Method(method), err)
	}
	return p.Parse(ctx, text, models.Method(method))
}

// ParseBatch parses every text with method, at most the configured number at
// a time. Results are in input order.
func (p *Parser) ParseBatch(ctx context.Context, texts []string, method models.Method) []models.ParseResult {
	ctx, span := p.tracer.Start(ctx, "parser.ParseBatch", trace.WithAttributes(
		attribute.String("parser.method", string(method)),
		attribute.Int("parser.batch_size", len(texts)),
	))
	defer span.End()

	results := make([]models.ParseResult, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, text := range texts {
		g.Go(func() error {
			results[i] = p.Parse(gctx, text, method)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in the results

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("parser.failed_count", failed))
	p.logger.Info("batch_completed",
		zap.String("method", string(method)),
		zap.Int("batch_size", len(texts)),
		zap.Int("failed", failed),
	)
	return results
}
