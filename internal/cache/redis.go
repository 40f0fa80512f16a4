package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/JustJay7/case-consult/pkg/logger"
)

const redisPrefix = "case-consult:"

// RedisCache stores entries in redis so that several instances share local copies.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger

	mu    sync.Mutex
	stats CacheStats
}

func NewRedisCache(redisURL string, ttl time.Duration, log *logger.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: log,
		stats:  CacheStats{Backend: "redis"},
	}, nil
}

func (rc *RedisCache) Get(key string) (*Entry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := rc.client.Get(ctx, redisPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			rc.logger.Warn("Redis get failed", "key", key, "error", err)
		}
		rc.record(false)
		return nil, false
	}

	entry, err := DeserializeEntry(data)
	if err != nil {
		rc.logger.Warn("Dropping unreadable cache entry", "key", key, "error", err)
		rc.Delete(key)
		rc.record(false)
		return nil, false
	}

	rc.record(true)
	return entry, true
}

func (rc *RedisCache) Set(key string, value *Entry) error {
	if value == nil {
		return fmt.Errorf("cache: nil entry for %s", key)
	}

	data, err := SerializeEntry(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rc.client.Set(ctx, redisPrefix+key, data, rc.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (rc *RedisCache) Delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rc.client.Del(ctx, redisPrefix+key).Err(); err != nil {
		rc.logger.Warn("Redis delete failed", "key", key, "error", err)
	}
}

func (rc *RedisCache) Clear() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	keys, err := rc.keys(ctx)
	if err != nil {
		rc.logger.Warn("Redis clear failed", "error", err)
		return
	}
	if len(keys) > 0 {
		if err := rc.client.Del(ctx, keys...).Err(); err != nil {
			rc.logger.Warn("Redis clear failed", "error", err)
		}
	}

	rc.mu.Lock()
	rc.stats = CacheStats{Backend: "redis"}
	rc.mu.Unlock()
}

func (rc *RedisCache) Stats() CacheStats {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	size := -1
	if keys, err := rc.keys(ctx); err == nil {
		size = len(keys)
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	stats := rc.stats
	stats.Size = size
	return stats
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

func (rc *RedisCache) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := rc.client.Scan(ctx, 0, redisPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func (rc *RedisCache) record(hit bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.stats.LastAccess = time.Now()
	if hit {
		rc.stats.Hits++
	} else {
		rc.stats.Misses++
	}
}
