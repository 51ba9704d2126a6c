package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/benvon/smart-task-parser/internal/logger"
	"github.com/benvon/smart-task-parser/internal/models"
)

// DefaultConfidence is used when the model omits a confidence score. It is a
// placeholder, not a measurement, and is not comparable to rule-based scores.
const DefaultConfidence = 0.8

var codeFence = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// extractJSON strips markdown code fences and prose that models add around JSON
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if m := codeFence.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.IndexAny(content, "[{")
	if start == -1 {
		return content
	}
	end := strings.LastIndexAny(content, "]}")
	if end < start {
		return content
	}
	return content[start : end+1]
}

// decodeTasks turns completion content into tasks, applying field defaults.
// In single mode only the first task is kept and a bare object is accepted.
func decodeTasks(content, originalText string, mode Mode) ([]models.ParsedTask, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.ErrEmptyResponse
	}

	var decoded any
	if err := json.Unmarshal([]byte(extractJSON(content)), &decoded); err != nil {
		return nil, fmt.Errorf("%w: Invalid JSON response from LLM: %s", models.ErrInvalidResponseFormat,
			logger.SanitizeString(content, logger.MaxPreviewLength))
	}

	var items []any
	switch v := decoded.(type) {
	case []any:
		items = v
	case map[string]any:
		if mode != ModeSingle {
			return nil, fmt.Errorf("%w: Invalid JSON response from LLM: expected an array of tasks, got an object", models.ErrInvalidResponseFormat)
		}
		items = []any{v}
	default:
		return nil, fmt.Errorf("%w: Invalid JSON response from LLM: expected an array of tasks, got %T", models.ErrInvalidResponseFormat, decoded)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no tasks in response", models.ErrEmptyResponse)
	}
	if mode == ModeSingle {
		items = items[:1]
	}

	tasks := make([]models.ParsedTask, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: Invalid JSON response from LLM: task %d is %T, not an object", models.ErrInvalidResponseFormat, i, item)
		}
		tasks = append(tasks, taskFromFields(fields, originalText))
	}
	return tasks, nil
}

func taskFromFields(fields map[string]any, originalText string) models.ParsedTask {
	name := stringField(fields, "taskName")
	if name == "" {
		name = models.UntitledTask
	}
	priority, _ := models.ParsePriority(stringField(fields, "priority"))

	return models.ParsedTask{
		TaskName:      name,
		Assignee:      models.StringPtr(stringField(fields, "assignee")),
		DueDate:       dateField(fields, "dueDate"),
		DueTime:       timeField(fields, "dueTime"),
		Priority:      priority,
		Status:        models.TaskStatusPending,
		Completed:     false,
		Confidence:    confidenceField(fields, "confidence"),
		OriginalText:  originalText,
		ParsingMethod: models.MethodLLM,
	}
}

// stringField returns a trimmed string value; null, non-strings and
// textual nulls ("null", "none", "n/a") become "".
func stringField(fields map[string]any, key string) string {
	s, ok := fields[key].(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "null", "none", "n/a":
		return ""
	}
	return s
}

func dateField(fields map[string]any, key string) *string {
	s := stringField(fields, key)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return nil
	}
	return &s
}

func timeField(fields map[string]any, key string) *string {
	s := stringField(fields, key)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format("15:04")
			return &out
		}
	}
	return nil
}

// confidenceField reads a number (or numeric string); missing, zero or
// unparseable values mean DefaultConfidence. Results are clamped to [0,1].
func confidenceField(fields map[string]any, key string) float64 {
	var c float64
	switch v := fields[key].(type) {
	case float64:
		c = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return DefaultConfidence
		}
		c = parsed
	default:
		return DefaultConfidence
	}
	switch {
	case c == 0 || math.IsNaN(c):
		return DefaultConfidence
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
