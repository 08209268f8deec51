// internal/cache/evaluation_cache.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/strideretail/stock-balancer/internal/balance"
	"github.com/strideretail/stock-balancer/internal/config"
	"github.com/strideretail/stock-balancer/internal/domain"
)

const summaryKeyPrefix = "balance:summary"

// EvaluationCache caches evaluation summaries per settings combination.
// Imports invalidate the whole cache since any dataset change can move every
// classification.
type EvaluationCache interface {
	GetSummary(ctx context.Context, settings balance.Settings) (domain.EvaluationSummary, bool, error)
	SetSummary(ctx context.Context, settings balance.Settings, summary domain.EvaluationSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisEvaluationCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopEvaluationCache struct{}

// NewEvaluationCache builds a redis-backed cache, or a noop cache if caching
// is disabled in the configuration.
func NewEvaluationCache(cfg config.CacheConfig) (EvaluationCache, error) {
	if !cfg.Enabled {
		return &noopEvaluationCache{}, nil
	}

	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	ttl := time.Duration(cfg.SummaryTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &redisEvaluationCache{
		client: redis.NewClient(opts),
		ttl:    ttl,
	}, nil
}

// NewNoopEvaluationCache returns a cache that stores nothing.
func NewNoopEvaluationCache() EvaluationCache {
	return &noopEvaluationCache{}
}

func (c *redisEvaluationCache) GetSummary(ctx context.Context, settings balance.Settings) (domain.EvaluationSummary, bool, error) {
	var summary domain.EvaluationSummary

	payload, err := c.client.Get(ctx, summaryKey(settings)).Bytes()
	if err == redis.Nil {
		return summary, false, nil
	}
	if err != nil {
		return summary, false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(payload, &summary); err != nil {
		return summary, false, fmt.Errorf("decode evaluation summary cache: %w", err)
	}
	return summary, true, nil
}

func (c *redisEvaluationCache) SetSummary(ctx context.Context, settings balance.Settings, summary domain.EvaluationSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode evaluation summary cache: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(settings), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisEvaluationCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, summaryKeyPrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}
	return nil
}

func (c *noopEvaluationCache) GetSummary(context.Context, balance.Settings) (domain.EvaluationSummary, bool, error) {
	return domain.EvaluationSummary{}, false, nil
}

func (c *noopEvaluationCache) SetSummary(context.Context, balance.Settings, domain.EvaluationSummary) error {
	return nil
}

func (c *noopEvaluationCache) InvalidateAll(context.Context) error {
	return nil
}

// summaryKey hashes the full settings so every parameter combination caches
// independently.
func summaryKey(settings balance.Settings) string {
	payload, _ := json.Marshal(settings)
	sum := sha1.Sum(payload)
	return fmt.Sprintf("%s:%s", summaryKeyPrefix, hex.EncodeToString(sum[:]))
}
