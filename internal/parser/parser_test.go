package parser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/benvon/smart-task-parser/internal/parser/llm"
	"github.com/benvon/smart-task-parser/internal/parser/rules"
	"github.com/benvon/smart-task-parser/internal/request"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// fixedNow is Sunday 15 June 2025, 10:00 UTC
var fixedNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// countingEngine records calls and returns a fixed result
type countingEngine struct {
	calls  atomic.Int32
	result models.ParseResult
}

func (e *countingEngine) Parse(_ context.Context, _ string) models.ParseResult {
	e.calls.Add(1)
	return e.result
}

// staticCompleter answers every completion with the same content
type staticCompleter struct {
	content string
}

func (c staticCompleter) Complete(context.Context, llm.CompletionRequest) (string, error) {
	return c.content, nil
}

func newRecordedParser(t *testing.T, rulesEngine, llmEngine Engine, opts ...Option) (*Parser, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	opts = append(opts, WithTracer(tp.Tracer("parser-test")))
	return New(rulesEngine, llmEngine, opts...), recorder
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestParser_Parse_RuleBased(t *testing.T) {
	t.Parallel()

	p, recorder := newRecordedParser(t, rules.NewEngine(rules.WithClock(fixedClock)), nil)

	result := p.Parse(context.Background(), "Finish landing page by tomorrow 5pm P1 assign to Aman", models.MethodRuleBased)
	if !result.Success {
		t.Fatalf("Parse() failed: %s", result.Error)
	}
	if result.Method != models.MethodRuleBased || len(result.Tasks) != 1 {
		t.Fatalf("result = %+v", result)
	}
	task := result.Tasks[0]
	if task.Priority != models.PriorityP1 || task.DueTime == nil || *task.DueTime != "17:00" {
		t.Errorf("task = %+v", task)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "parser.Parse" {
		t.Errorf("span name = %q", span.Name())
	}
	if v, ok := spanAttr(span, "parser.method"); !ok || v.AsString() != "rule-based" {
		t.Errorf("parser.method = %v", v)
	}
	if v, ok := spanAttr(span, "parser.success"); !ok || !v.AsBool() {
		t.Errorf("parser.success = %v", v)
	}
	if v, ok := spanAttr(span, "parser.task_count"); !ok || v.AsInt64() != 1 {
		t.Errorf("parser.task_count = %v", v)
	}
	if v, ok := spanAttr(span, "request.id"); !ok || v.AsString() == "" {
		t.Error("request.id attribute missing")
	}
}

func TestParser_Parse_KeepsCallerRequestID(t *testing.T) {
	t.Parallel()

	p, recorder := newRecordedParser(t, rules.NewEngine(rules.WithClock(fixedClock)), nil)
	ctx := request.WithRequestID(context.Background(), "req-42")

	p.Parse(ctx, "Buy groceries", models.MethodRuleBased)

	if v, _ := spanAttr(recorder.Ended()[0], "request.id"); v.AsString() != "req-42" {
		t.Errorf("request.id = %q, want req-42", v.AsString())
	}
}

func TestParser_Parse_LLM(t *testing.T) {
	t.Parallel()

	engine := llm.NewEngine(staticCompleter{content: `[{"taskName":"Review PR","assignee":"Alice"},{"taskName":"Deploy","priority":"P1"}]`},
		llm.WithClock(fixedClock))
	p := New(nil, engine)

	result := p.Parse(context.Background(), "Alice reviews the PR, then deploy P1", models.MethodLLM)
	if !result.Success {
		t.Fatalf("Parse() failed: %s", result.Error)
	}
	if result.Method != models.MethodLLM || len(result.Tasks) != 2 {
		t.Fatalf("result = %+v", result)
	}
	for _, task := range result.Tasks {
		if task.OriginalText != "Alice reviews the PR, then deploy P1" {
			t.Errorf("OriginalText = %q", task.OriginalText)
		}
	}
}

func TestParser_Parse_RejectsBlankTextBeforeDispatch(t *testing.T) {
	t.Parallel()

	ruleEngine := &countingEngine{}
	llmEngine := &countingEngine{}
	p, recorder := newRecordedParser(t, ruleEngine, llmEngine)

	for _, method := range models.Methods() {
		for _, text := range []string{"", "   ", "\n\t"} {
			result := p.Parse(context.Background(), text, method)
			if result.Success {
				t.Errorf("Parse(%q, %s) succeeded", text, method)
			}
			if result.Method != method {
				t.Errorf("Method = %s, want %s", result.Method, method)
			}
			if !strings.Contains(result.Error, models.ErrEmptyText.Error()) {
				t.Errorf("Error = %q", result.Error)
			}
		}
	}
	if ruleEngine.calls.Load() != 0 || llmEngine.calls.Load() != 0 {
		t.Errorf("engines called %d/%d times, want 0", ruleEngine.calls.Load(), llmEngine.calls.Load())
	}

	span := recorder.Ended()[0]
	if span.Status().Code != codes.Error {
		t.Errorf("span status = %v, want Error", span.Status().Code)
	}
}

func TestParser_Parse_Failures(t *testing.T) {
	t.Parallel()

	badTask := models.ParsedTask{TaskName: "x", Priority: "P9", Status: models.TaskStatusPending, Confidence: 0.5}

	tests := []struct {
		name       string
		rules      Engine
		llm        Engine
		method     models.Method
		wantSubstr string
	}{
		{
			name:       "unknown method",
			rules:      &countingEngine{},
			method:     "magic",
			wantSubstr: "invalid method",
		},
		{
			name:       "missing llm engine",
			rules:      &countingEngine{},
			method:     models.MethodLLM,
			wantSubstr: models.ErrNotInitialized.Error(),
		},
		{
			name:       "llm engine without credential",
			llm:        llm.NewEngine(nil),
			method:     models.MethodLLM,
			wantSubstr: models.ErrNotInitialized.Error(),
		},
		{
			name:       "engine failure passes through",
			llm:        &countingEngine{result: models.Failed(models.MethodLLM, errors.New("upstream down"))},
			method:     models.MethodLLM,
			wantSubstr: "upstream down",
		},
		{
			name:       "invalid task from engine",
			rules:      &countingEngine{result: models.Succeeded(models.MethodRuleBased, []models.ParsedTask{badTask})},
			method:     models.MethodRuleBased,
			wantSubstr: "task 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := New(tt.rules, tt.llm).Parse(context.Background(), "Buy milk", tt.method)
			if result.Success {
				t.Fatal("Parse() succeeded, want failure")
			}
			if result.Tasks != nil {
				t.Errorf("Tasks = %+v, want nil", result.Tasks)
			}
			if !strings.Contains(result.Error, tt.wantSubstr) {
				t.Errorf("Error = %q, want substring %q", result.Error, tt.wantSubstr)
			}
		})
	}
}

func TestParser_ParseString(t *testing.T) {
	t.Parallel()

	p := New(rules.NewEngine(rules.WithClock(fixedClock)), llm.NewEngine(nil))

	tests := []struct {
		name       string
		text       string
		method     string
		wantOK     bool
		wantSubstr string
	}{
		{name: "valid", text: "Buy groceries", method: "rule-based", wantOK: true},
		{name: "invalid method", text: "Buy groceries", method: "regex", wantSubstr: "invalid method"},
		{name: "empty method", text: "Buy groceries", method: "", wantSubstr: "invalid method"},
		{name: "blank text", text: "  ", method: "llm", wantSubstr: "text input is required"},
		{name: "llm without credential", text: "Buy groceries", method: "llm", wantSubstr: "not initialized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := p.ParseString(context.Background(), tt.text, tt.method)
			if result.Success != tt.wantOK {
				t.Fatalf("Success = %v, want %v (error %q)", result.Success, tt.wantOK, result.Error)
			}
			if !tt.wantOK && !strings.Contains(result.Error, tt.wantSubstr) {
				t.Errorf("Error = %q, want substring %q", result.Error, tt.wantSubstr)
			}
		})
	}
}

func TestParser_ParseString_KeepsOriginalText(t *testing.T) {
	t.Parallel()

	p := New(rules.NewEngine(rules.WithClock(fixedClock)), nil)
	result := p.ParseString(context.Background(), "  Buy groceries  ", "rule-based")
	if !result.Success {
		t.Fatalf("ParseString() failed: %s", result.Error)
	}
	if result.Tasks[0].OriginalText != "  Buy groceries  " {
		t.Errorf("OriginalText = %q", result.Tasks[0].OriginalText)
	}
}

// blockingEngine tracks the peak number of concurrent calls
type blockingEngine struct {
	mu      sync.Mutex
	current int
	peak    int
}

func (e *blockingEngine) Parse(_ context.Context, text string) models.ParseResult {
	e.mu.Lock()
	e.current++
	if e.current > e.peak {
		e.peak = e.current
	}
	e.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	e.mu.Lock()
	e.current--
	e.mu.Unlock()

	return models.Succeeded(models.MethodRuleBased, []models.ParsedTask{{
		TaskName:      text,
		Priority:      models.DefaultPriority,
		Status:        models.TaskStatusPending,
		Confidence:    0.5,
		OriginalText:  text,
		ParsingMethod: models.MethodRuleBased,
	}})
}

func TestParser_ParseBatch(t *testing.T) {
	t.Parallel()

	engine := &blockingEngine{}
	p, recorder := newRecordedParser(t, engine, nil, WithBatchConcurrency(3))

	texts := make([]string, 20)
	for i := range texts {
		texts[i] = fmt.Sprintf("task %d", i)
	}
	texts[7] = " "

	results := p.ParseBatch(context.Background(), texts, models.MethodRuleBased)
	if len(results) != len(texts) {
		t.Fatalf("got %d results, want %d", len(results), len(texts))
	}
	for i, r := range results {
		if i == 7 {
			if r.Success {
				t.Error("blank input in batch succeeded")
			}
			continue
		}
		if !r.Success || r.Tasks[0].TaskName != texts[i] {
			t.Errorf("results[%d] = %+v, want task %q", i, r, texts[i])
		}
	}
	if engine.peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", engine.peak)
	}

	var batchSpans int
	for _, span := range recorder.Ended() {
		if span.Name() == "parser.ParseBatch" {
			batchSpans++
			if v, _ := spanAttr(span, "parser.failed_count"); v.AsInt64() != 1 {
				t.Errorf("parser.failed_count = %d, want 1", v.AsInt64())
			}
		}
	}
	if batchSpans != 1 {
		t.Errorf("got %d batch spans, want 1", batchSpans)
	}
}

func TestParser_ParseBatch_Empty(t *testing.T) {
	t.Parallel()

	results := New(&countingEngine{}, nil).ParseBatch(context.Background(), nil, models.MethodRuleBased)
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
