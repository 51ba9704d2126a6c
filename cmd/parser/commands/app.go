package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/benvon/smart-task-parser/internal/config"
	"github.com/benvon/smart-task-parser/internal/logger"
	"github.com/benvon/smart-task-parser/internal/names"
	"github.com/benvon/smart-task-parser/internal/parser"
	"github.com/benvon/smart-task-parser/internal/parser/llm"
	"github.com/benvon/smart-task-parser/internal/parser/rules"
	"github.com/benvon/smart-task-parser/internal/telemetry"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// GlobalFlags are the persistent flags shared by every command
type GlobalFlags struct {
	Debug     bool
	DevLogs   bool
	NamesFile string
}

// app holds everything a command needs, built from config and flags
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	dict   names.Dictionary
	parser *parser.Parser
	tp     *sdktrace.TracerProvider
}

type appOverrides struct {
	llmMode     string
	concurrency int
}

func newApp(flags *GlobalFlags, overrides appOverrides) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.Debug {
		cfg.DebugMode = true
	}
	if flags.NamesFile != "" {
		cfg.NamesFile = flags.NamesFile
	}
	if overrides.llmMode != "" {
		mode, err := llm.ParseMode(overrides.llmMode)
		if err != nil {
			return nil, err
		}
		cfg.LLMMode = mode
	}
	if overrides.concurrency > 0 {
		cfg.BatchConcurrency = overrides.concurrency
	}

	zapLogger, err := logger.New(cfg.DebugMode, flags.DevLogs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, logger: zapLogger}

	a.dict, err = loadDictionary(cfg.NamesFile)
	if err != nil {
		a.close()
		return nil, err
	}

	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(context.Background(), telemetry.ServiceName, cfg.OTELEndpoint)
		if err != nil {
			zapLogger.Warn("failed to initialize OpenTelemetry tracer", zap.Error(err))
		} else {
			a.tp = tp
			zapLogger.Debug("opentelemetry_enabled", zap.String("endpoint", cfg.OTELEndpoint))
		}
	}

	ruleEngine := rules.NewEngine(
		rules.WithClock(cfg.Now),
		rules.WithDictionary(a.dict),
		rules.WithLogger(zapLogger),
	)

	llmEngine, err := a.newLLMEngine()
	if err != nil {
		a.close()
		return nil, err
	}

	a.parser = parser.New(ruleEngine, llmEngine,
		parser.WithLogger(zapLogger),
		parser.WithBatchConcurrency(cfg.BatchConcurrency),
	)
	return a, nil
}

// newLLMEngine builds the LLM strategy. Without an API key the engine still
// exists and reports ErrNotInitialized on every call.
func (a *app) newLLMEngine() (parser.Engine, error) {
	engineOpts := []llm.Option{
		llm.WithMode(a.cfg.LLMMode),
		llm.WithClock(a.cfg.Now),
		llm.WithLogger(a.logger),
	}

	if a.cfg.OpenAIKey == "" {
		a.logger.Debug("llm_disabled", zap.String("reason", "OPENAI_API_KEY not set"))
		return llm.NewEngine(nil, engineOpts...), nil
	}

	client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:    a.cfg.OpenAIKey,
		BaseURL:   a.cfg.AIBaseURL,
		Model:     a.cfg.AIModel,
		Timeout:   a.cfg.LLMTimeout,
		Logger:    a.logger,
		DebugMode: a.cfg.DebugMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	engine := llm.NewEngine(client, engineOpts...)
	if a.cfg.LLMCacheSize == 0 {
		return engine, nil
	}
	return llm.NewCachedEngine(engine, a.cfg.LLMCacheSize, a.cfg.LLMCacheTTL), nil
}

func loadDictionary(path string) (names.Dictionary, error) {
	if path == "" {
		return names.Default(), nil
	}
	dict, err := names.Load(path)
	if err != nil {
		return names.Dictionary{}, fmt.Errorf("%s: %w", path, err)
	}
	return dict, nil
}

func (a *app) close() {
	if a.tp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx, a.tp); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to shutdown tracer provider: %v\n", err)
		}
	}
	logger.Sync(a.logger)
}
