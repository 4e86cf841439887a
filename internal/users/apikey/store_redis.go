// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package apikey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/web-enterprise-24/backend/internal/platform/constants"
	"github.com/web-enterprise-24/backend/internal/platform/ctxutil"
	"github.com/web-enterprise-24/backend/internal/platform/metrics"
)

// CacheClient is the subset of the Redis API the cache needs.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisCache decorates a [Store] with a read-through Redis cache.
//
// # Consistency
//
// Only hits are cached. A disabled or deleted key keeps working from the cache
// for at most the TTL. Cache failures never fail the request; the lookup falls
// through to the wrapped store.
type RedisCache struct {
	client  CacheClient
	next    Store
	ttl     time.Duration
	metrics *metrics.AuthMetrics
}

// NewRedisCache wraps next with a cache of the given TTL. m may be nil.
func NewRedisCache(client CacheClient, next Store, ttl time.Duration, m *metrics.AuthMetrics) *RedisCache {
	return &RedisCache{client: client, next: next, ttl: ttl, metrics: m}
}

func cacheKey(key string) string {
	return constants.RedisPrefixAPIKey + key
}

/*
FindByKey serves the key from Redis, falling back to the wrapped store.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - *APIKey: Active key
  - error: Errors of the wrapped store
*/
func (cache *RedisCache) FindByKey(context context.Context, key string) (*APIKey, error) {
	logger := ctxutil.GetLogger(context)

	cached, err := cache.get(context, key)
	switch {
	case err == nil:
		cache.metrics.RecordCacheLookup(true)
		return cached, nil
	case !errors.Is(err, redis.Nil):
		logger.Warn("apikey_cache_read_failed", slog.Any("error", err))
	}
	cache.metrics.RecordCacheLookup(false)

	found, err := cache.next.FindByKey(context, key)
	if err != nil {
		return nil, err
	}

	if err := cache.set(context, found); err != nil {
		logger.Warn("apikey_cache_write_failed", slog.Any("error", err))
	}

	return found, nil
}

func (cache *RedisCache) get(context context.Context, key string) (*APIKey, error) {
	payload, err := cache.client.Get(context, cacheKey(key)).Bytes()
	if err != nil {
		return nil, err
	}

	found := &APIKey{}
	if err := json.Unmarshal(payload, found); err != nil {
		return nil, fmt.Errorf("redis_apikey_decode_failed: %w", err)
	}
	return found, nil
}

func (cache *RedisCache) set(context context.Context, found *APIKey) error {
	payload, err := json.Marshal(found)
	if err != nil {
		return fmt.Errorf("redis_apikey_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(found.Key), payload, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_apikey_set_failed: %w", err)
	}
	return nil
}
