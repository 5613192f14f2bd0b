package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"placify-backend/shared/config"
	"placify-backend/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	// ErrMiss is returned by GetJSON when the key does not exist
	ErrMiss = errors.New("cache miss")
	// ErrDisabled is returned when no Redis connection is configured
	ErrDisabled = errors.New("cache manager not initialized")
)

type CacheManager struct {
	client *redis.Client
}

// NewRedisClient connects and pings Redis using the loaded configuration
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Redis connected",
		zap.String("addr", client.Options().Addr), zap.Int("db", cfg.RedisDB))
	return client, nil
}

func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{client: client}
}

// Client exposes the underlying connection for other Redis users such as the rate limiter
func (cm *CacheManager) Client() *redis.Client {
	if cm == nil {
		return nil
	}
	return cm.client
}

func (cm *CacheManager) enabled() bool {
	return cm != nil && cm.client != nil
}

// SetJSON stores v under key for ttl
func (cm *CacheManager) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	if !cm.enabled() {
		return ErrDisabled
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := cm.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache %s: %w", key, err)
	}
	return nil
}

// GetJSON loads key into dst. A missing key yields ErrMiss.
func (cm *CacheManager) GetJSON(ctx context.Context, key string, dst interface{}) error {
	if !cm.enabled() {
		return ErrDisabled
	}

	raw, err := cm.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get cache %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to unmarshal cache data: %w", err)
	}
	return nil
}

// Delete removes the given keys
func (cm *CacheManager) Delete(ctx context.Context, keys ...string) error {
	if !cm.enabled() {
		return ErrDisabled
	}
	if len(keys) == 0 {
		return nil
	}
	return cm.client.Del(ctx, keys...).Err()
}

// InvalidateByPattern deletes every key matching a glob pattern
func (cm *CacheManager) InvalidateByPattern(ctx context.Context, pattern string) (int, error) {
	if !cm.enabled() {
		return 0, ErrDisabled
	}

	iter := cm.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan keys: %w", err)
	}

	if len(keys) == 0 {
		return 0, nil
	}
	if err := cm.client.Del(ctx, keys...).Err(); err != nil {
		return 0, fmt.Errorf("failed to delete keys: %w", err)
	}

	logger.FromContext(ctx).Debug("cache invalidated", zap.String("pattern", pattern), zap.Int("keys", len(keys)))
	return len(keys), nil
}

// Close closes the cache manager connection
func (cm *CacheManager) Close() error {
	if cm.enabled() {
		return cm.client.Close()
	}
	return nil
}
