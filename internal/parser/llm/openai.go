package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/benvon/smart-task-parser/internal/logger"
	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/benvon/smart-task-parser/internal/request"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second
)

// ErrMissingAPIKey is returned when an OpenAI client is built without a key
var ErrMissingAPIKey = errors.New("openai api key is required")

// OpenAIConfig configures an OpenAIClient
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	Logger    *zap.Logger
	DebugMode bool
}

// OpenAIClient is the credential-holding handle to the OpenAI chat completions
// API. It is immutable once built and safe for concurrent use.
type OpenAIClient struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIClient creates a client. SDK retries are disabled: a failed call
// is reported to the caller as-is.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(0),
	)

	l := logger.OrNop(cfg.Logger)
	l.Debug("openai_client_initialized",
		zap.String("model", cfg.Model),
		zap.String("base_url", cfg.BaseURL),
		zap.String("api_key", logger.SanitizeAPIKey(cfg.APIKey)),
	)

	return &OpenAIClient{
		client:    client,
		model:     cfg.Model,
		logger:    l,
		debugMode: cfg.DebugMode,
	}, nil
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete implements Completer
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	requestID := request.RequestIDFromContext(ctx)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	if c.debugMode {
		c.logger.Debug("llm_api_request",
			zap.String("operation", "parse_task"),
			zap.String("model", c.model),
			zap.Int("prompt_length", len(req.Prompt)),
			zap.String("prompt_preview", logger.Preview(req.Prompt, true)),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	latency := time.Since(start)
	if err != nil {
		c.logger.Debug("llm_api_error",
			zap.String("operation", "parse_task"),
			zap.String("model", c.model),
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return "", fmt.Errorf("completion request failed: %w", apiErr)
		}
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", models.ErrEmptyResponse)
	}
	content := resp.Choices[0].Message.Content

	if c.debugMode {
		c.logger.Debug("llm_api_response",
			zap.String("operation", "parse_task"),
			zap.String("model", c.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", logger.Preview(content, true)),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	if content == "" {
		return "", fmt.Errorf("%w: no content in response", models.ErrEmptyResponse)
	}
	return content, nil
}
