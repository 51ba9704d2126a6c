package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
)

// APIError describes a failed call to the completion service
type APIError struct {
	Message    string
	Type       string
	Code       string
	StatusCode int
	// IsPermanent is true for quota exhaustion, false for transient rate limits
	IsPermanent bool
	Err         error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRateLimitError reports whether err is a transient rate limit
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests && !apiErr.IsPermanent
	}
	return false
}

// IsQuotaError reports whether err is a quota exhaustion
func IsQuotaError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsPermanent
	}
	return false
}

// ExtractAPIError converts an openai-go error into an APIError, or returns nil
// when err did not come from the API.
func ExtractAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var sdkErr *openai.Error
	if !errors.As(err, &sdkErr) {
		return nil
	}
	apiErr := &APIError{
		Message:    sdkErr.Message,
		Type:       sdkErr.Type,
		Code:       sdkErr.Code,
		StatusCode: sdkErr.StatusCode,
		Err:        err,
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(sdkErr.StatusCode)
	}
	if apiErr.Code == "insufficient_quota" || strings.Contains(strings.ToLower(apiErr.Message), "quota") {
		apiErr.IsPermanent = true
	}
	return apiErr
}
