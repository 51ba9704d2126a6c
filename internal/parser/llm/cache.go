package llm

import (
	"context"
	"time"

	"github.com/benvon/smart-task-parser/internal/models"
	"github.com/benvon/smart-task-parser/internal/request"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

const (
	// DefaultCacheSize is the default number of cached parse results
	DefaultCacheSize = 256
	// DefaultCacheTTL is how long a cached result stays valid
	DefaultCacheTTL = 10 * time.Minute
)

type cacheKey struct {
	day  string
	mode Mode
	text string
}

// CachedEngine memoizes successful Engine results. Keys include the engine's
// current date so relative dates never outlive the day they were resolved on.
type CachedEngine struct {
	engine *Engine
	cache  *expirable.LRU[cacheKey, []models.ParsedTask]
}

// NewCachedEngine wraps engine with an expiring LRU cache
func NewCachedEngine(engine *Engine, size int, ttl time.Duration) *CachedEngine {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedEngine{
		engine: engine,
		cache:  expirable.NewLRU[cacheKey, []models.ParsedTask](size, nil, ttl),
	}
}

// Parse returns a cached result for text when one exists, otherwise it calls
// the wrapped engine. Failures are never cached.
func (c *CachedEngine) Parse(ctx context.Context, text string) models.ParseResult {
	key := cacheKey{day: c.engine.today(), mode: c.engine.Mode(), text: text}

	if tasks, ok := c.cache.Get(key); ok {
		c.engine.logger.Debug("llm_cache_hit",
			zap.String("request_id", request.RequestIDFromContext(ctx)),
			zap.Int("task_count", len(tasks)),
		)
		return models.Succeeded(models.MethodLLM, cloneTasks(tasks))
	}

	result := c.engine.Parse(ctx, text)
	if result.Success {
		c.cache.Add(key, cloneTasks(result.Tasks))
	}
	return result
}

// Len returns the number of cached entries
func (c *CachedEngine) Len() int {
	return c.cache.Len()
}

// Purge drops every cached entry
func (c *CachedEngine) Purge() {
	c.cache.Purge()
}

// cloneTasks deep-copies tasks so callers cannot mutate cached values
func cloneTasks(tasks []models.ParsedTask) []models.ParsedTask {
	out := make([]models.ParsedTask, len(tasks))
	for i, t := range tasks {
		t.Assignee = cloneString(t.Assignee)
		t.DueDate = cloneString(t.DueDate)
		t.DueTime = cloneString(t.DueTime)
		out[i] = t
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
