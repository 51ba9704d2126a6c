package models

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates the caller supplied an unusable request
	ErrValidation = errors.New("validation error")
	// ErrInvalidMethod indicates an unknown parsing method name
	ErrInvalidMethod = fmt.Errorf("%w: invalid method", ErrValidation)
	// ErrEmptyText indicates the text to parse was empty or blank
	ErrEmptyText = fmt.Errorf("%w: text input is required", ErrValidation)
	// ErrNotInitialized indicates the LLM engine has no client credential
	ErrNotInitialized = errors.New("llm client not initialized")
	// ErrEmptyResponse indicates the completion service returned no usable content
	ErrEmptyResponse = errors.New("empty response from llm")
	// ErrInvalidResponseFormat indicates the completion was not the expected JSON shape
	ErrInvalidResponseFormat = errors.New("invalid response format")
	// ErrInternalExtraction indicates an unexpected fault inside the rule-based extractors
	ErrInternalExtraction = errors.New("internal extraction error")
)
