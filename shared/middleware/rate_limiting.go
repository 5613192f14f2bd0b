package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"placify-backend/shared/config"
	"placify-backend/shared/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig - Rate limiter configuration
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// NewRateLimitConfig builds the global limit from configuration
func NewRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		MaxRequests:   cfg.RateLimitMaxRequests,
		TimeWindow:    time.Duration(cfg.RateLimitTimeWindowSeconds) * time.Second,
		BlockDuration: time.Duration(cfg.RateLimitBlockDurationMinutes) * time.Minute,
	}
}

// NewLoginRateLimitConfig builds the stricter limit used on login
func NewLoginRateLimitConfig(cfg *config.Config) RateLimitConfig {
	return RateLimitConfig{
		MaxRequests:   cfg.LoginRateLimitMaxAttempts,
		TimeWindow:    time.Duration(cfg.LoginRateLimitWindowSeconds) * time.Second,
		BlockDuration: time.Duration(cfg.LoginRateLimitBlockMinutes) * time.Minute,
	}
}

// LimitStore decides whether one more request for key fits the limit
type LimitStore interface {
	Allow(ctx context.Context, key string, cfg RateLimitConfig) (bool, error)
}

type rateLimit struct {
	Count      int
	ResetAt    time.Time
	LastAccess time.Time
	Blocked    bool
	BlockUntil time.Time
}

// MemoryStore keeps counters in process. Suitable for a single replica.
type MemoryStore struct {
	store map[string]*rateLimit
	mutex sync.Mutex
	now   func() time.Time
}

// NewMemoryStore starts a janitor that drops keys idle for a day
func NewMemoryStore(cleanupEvery time.Duration) *MemoryStore {
	s := &MemoryStore{store: make(map[string]*rateLimit), now: time.Now}
	if cleanupEvery > 0 {
		go s.cleanup(cleanupEvery)
	}
	return s
}

func (s *MemoryStore) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := s.now()
		for key, limit := range s.store {
			if now.Sub(limit.LastAccess) > 24*time.Hour {
				delete(s.store, key)
			}
		}
		s.mutex.Unlock()
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string, cfg RateLimitConfig) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	limit, exists := s.store[key]
	if !exists {
		s.store[key] = &rateLimit{Count: 1, ResetAt: now.Add(cfg.TimeWindow), LastAccess: now}
		return true, nil
	}

	limit.LastAccess = now

	if limit.Blocked {
		if now.Before(limit.BlockUntil) {
			return false, nil
		}
		limit.Blocked = false
		limit.Count = 1
		limit.ResetAt = now.Add(cfg.TimeWindow)
		return true, nil
	}

	if now.After(limit.ResetAt) {
		limit.Count = 1
		limit.ResetAt = now.Add(cfg.TimeWindow)
		return true, nil
	}

	if limit.Count >= cfg.MaxRequests {
		limit.Blocked = true
		limit.BlockUntil = now.Add(cfg.BlockDuration)
		return false, nil
	}

	limit.Count++
	return true, nil
}

// RedisStore shares counters between gateway replicas
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Allow(ctx context.Context, key string, cfg RateLimitConfig) (bool, error) {
	counterKey := fmt.Sprintf("%s:count:%s", s.prefix, key)
	blockKey := fmt.Sprintf("%s:block:%s", s.prefix, key)

	blocked, err := s.client.Exists(ctx, blockKey).Result()
	if err != nil {
		return true, err
	}
	if blocked > 0 {
		return false, nil
	}

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, counterKey)
	pipe.ExpireNX(ctx, counterKey, cfg.TimeWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, err
	}

	if incr.Val() > int64(cfg.MaxRequests) {
		if err := s.client.Set(ctx, blockKey, 1, cfg.BlockDuration).Err(); err != nil {
			return false, err
		}
		s.client.Del(ctx, counterKey)
		return false, nil
	}
	return true, nil
}

// NewLimitStore uses Redis when a client is available and process memory otherwise
func NewLimitStore(client *redis.Client, prefix string) LimitStore {
	if client == nil {
		return NewMemoryStore(30 * time.Minute)
	}
	return NewRedisStore(client, prefix)
}

// RateLimiter turns a LimitStore into gin middleware
type RateLimiter struct {
	store LimitStore
}

func NewRateLimiter(store LimitStore) *RateLimiter {
	return &RateLimiter{store: store}
}

// Middleware limits per client IP under the given key prefix
func (rl *RateLimiter) Middleware(scope string, cfg RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		allowed, err := rl.store.Allow(c.Request.Context(), key, cfg)
		if err != nil {
			// fail open
			logger.FromGin(c).Warn("rate limiter unavailable", zap.Error(err))
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "RATE_LIMITED",
				"message": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
