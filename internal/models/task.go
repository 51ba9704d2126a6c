package models

import (
	"fmt"
	"strings"
)

// UntitledTask is the task name used when nothing is left after extraction
const UntitledTask = "Untitled Task"

// Priority represents the urgency of a parsed task
type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"

	// DefaultPriority is assigned when no priority token is present
	DefaultPriority = PriorityP3
)

// ParsePriority normalizes a priority label such as "p1" or "P4".
// The boolean is false when the label is not one of P1-P4.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return p, true
	default:
		return DefaultPriority, false
	}
}

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Method identifies the extraction strategy that produced a task
type Method string

const (
	MethodRuleBased Method = "rule-based"
	MethodLLM       Method = "llm"
)

// Methods lists every supported parsing method
func Methods() []Method {
	return []Method{MethodRuleBased, MethodLLM}
}

// ParseMethod converts a caller-supplied method name into a Method
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodRuleBased, MethodLLM:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (must be %q or %q)", ErrInvalidMethod, s, MethodRuleBased, MethodLLM)
	}
}

// ParsedTask is the structured record produced from one free-text task description
type ParsedTask struct {
	TaskName      string     `json:"taskName"`
	Assignee      *string    `json:"assignee"`
	DueDate       *string    `json:"dueDate"` // YYYY-MM-DD
	DueTime       *string    `json:"dueTime"` // HH:MM, 24-hour
	Priority      Priority   `json:"priority"`
	Status        TaskStatus `json:"status"`
	Completed     bool       `json:"completed"`
	Confidence    float64    `json:"confidence"`
	OriginalText  string     `json:"originalText"`
	ParsingMethod Method     `json:"parsingMethod"`
}

// ParseResult is the outcome of a single parse call.
// Success implies a non-empty Tasks slice; failure implies nil Tasks and a set Error.
type ParseResult struct {
	Success bool         `json:"success"`
	Tasks   []ParsedTask `json:"tasks"`
	Error   string       `json:"error,omitempty"`
	Method  Method       `json:"method"`
}

// Succeeded builds a successful result. An empty task list is reported as a failure.
func Succeeded(method Method, tasks []ParsedTask) ParseResult {
	if len(tasks) == 0 {
		return Failed(method, ErrEmptyResponse)
	}
	return ParseResult{Success: true, Tasks: tasks, Method: method}
}

// Failed builds a failed result carrying err's message
func Failed(method Method, err error) ParseResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ParseResult{Success: false, Error: msg, Method: method}
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
