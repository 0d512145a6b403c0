package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

// Limiter admits or rejects one request for key
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter counts requests per key in fixed windows held in process
// memory. Each key gets a fresh bucket of `requests` tokens when a window
// starts; the bucket refills slower than one token per window, so nothing
// beyond the budget is admitted before the next boundary.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	requests int
	window   time.Duration
	idle     time.Duration
	lastGC   time.Time
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	slot     int64
	lastSeen time.Time
}

// NewMemoryLimiter creates a limiter allowing requests per window for each key
func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*visitor),
		requests: requests,
		window:   window,
		idle:     2 * window,
		now:      time.Now,
	}
}

// Allow consumes one token from the current window's bucket of key
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastGC) > l.idle {
		for k, v := range l.limiters {
			if now.Sub(v.lastSeen) > l.idle {
				delete(l.limiters, k)
			}
		}
		l.lastGC = now
	}

	// Same window boundaries as RedisLimiter
	slot := now.UnixNano() / int64(l.window)
	v, ok := l.limiters[key]
	if !ok || v.slot != slot {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.window), l.requests), slot: slot}
		l.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// RedisLimiter counts requests in fixed windows shared by every API instance
type RedisLimiter struct {
	client   *redis.Client
	prefix   string
	requests int64
	window   time.Duration
	now      func() time.Time
}

// NewRedisLimiter creates a fixed-window limiter backed by client
func NewRedisLimiter(client *redis.Client, prefix string, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		requests: int64(requests),
		window:   window,
		now:      time.Now,
	}
}

// Allow increments the counter of the current window for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%s", l.prefix, key, strconv.FormatInt(slot, 10))

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= l.requests, nil
}

// NewRedisClient connects to the server named by a redis:// URL
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RateLimit rejects requests once the client IP exceeds the limiter's budget.
// Limiter failures let the request through.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "RATE_LIMITED",
					"message": "Too many requests, please try again later",
				},
			})
			return
		}

		c.Next()
	}
}
