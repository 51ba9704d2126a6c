package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/go-playground/validator/v10"
)

// MaxTextLength bounds the input accepted by a single parse call
const MaxTextLength = 10000

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("parse_method", validateParseMethod); err != nil {
		panic(fmt.Sprintf("failed to register parse_method validator: %v", err))
	}
	if err := Validate.RegisterValidation("priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("task_status", validateTaskStatus); err != nil {
		panic(fmt.Sprintf("failed to register task_status validator: %v", err))
	}
}

// ParseRequest is the inbound contract of a parse call
type ParseRequest struct {
	Text   string `validate:"required,max=10000"`
	Method string `validate:"required,parse_method"`
}

// ValidateParseRequest sanitizes req.Text in place and checks both fields.
// Errors wrap models.ErrEmptyText, models.ErrInvalidMethod or models.ErrValidation.
func ValidateParseRequest(req *ParseRequest) error {
	req.Text = SanitizeText(req.Text)

	err := Validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	// report the first failing field, as the caller can only act on one
	fieldError := validationErrors[0]
	switch {
	case fieldError.Field() == "Text" && fieldError.Tag() == "required":
		return models.ErrEmptyText
	case fieldError.Field() == "Text" && fieldError.Tag() == "max":
		return fmt.Errorf("%w: text exceeds %d characters", models.ErrValidation, MaxTextLength)
	case fieldError.Field() == "Method":
		return fmt.Errorf("%w: %q (must be %q or %q)", models.ErrInvalidMethod, req.Method, models.MethodRuleBased, models.MethodLLM)
	default:
		return fmt.Errorf("%w: %s", models.ErrValidation, fieldError.Error())
	}
}

// validateParseMethod validates that a string is a valid Method enum value
func validateParseMethod(fl validator.FieldLevel) bool {
	_, err := models.ParseMethod(fl.Field().String())
	return err == nil
}

// validatePriority validates that a string is a canonical Priority value
func validatePriority(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.Priority(value) {
	case models.PriorityP1, models.PriorityP2, models.PriorityP3, models.PriorityP4:
		return true
	default:
		return false
	}
}

// validateTaskStatus validates that a string is a valid TaskStatus enum value
func validateTaskStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.TaskStatus(value) {
	case models.TaskStatusPending, models.TaskStatusInProgress, models.TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// ValidateTask checks the enum fields and confidence range of a parsed task
func ValidateTask(task models.ParsedTask) error {
	err := Validate.Var(string(task.Priority), "priority")
	if err == nil {
		err = Validate.Var(string(task.Status), "task_status")
	}
	if err == nil {
		err = Validate.Var(task.Confidence, "gte=0,lte=1")
	}
	if err == nil && strings.TrimSpace(task.TaskName) == "" {
		err = errors.New("task name is empty")
	}
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return strings.TrimSpace(sanitized.String())
}
