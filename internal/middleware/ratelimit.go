package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"yoladmin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// tokenBucketScript refills KEYS[1] (tokens) from KEYS[2] (last refill
// timestamp) and takes one token when available.
// ARGV: rate, capacity, now, requested. Returns {allowed, remaining, reset_after}.
var tokenBucketScript = redis.NewScript(`
local tokens_key = KEYS[1]
local ts_key = KEYS[2]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local ttl = math.ceil(capacity / rate * 2)

local tokens = tonumber(redis.call("get", tokens_key))
if tokens == nil then tokens = capacity end
local last = tonumber(redis.call("get", ts_key))
if last == nil then last = now end

local available = math.min(capacity, tokens + math.max(0, now - last) * rate)
if available < requested then
    return { 0, available, (requested - available) / rate }
end

available = available - requested
redis.call("set", tokens_key, available, "EX", ttl)
redis.call("set", ts_key, now, "EX", ttl)
return { 1, available, 0 }
`)

const localIdle = 10 * time.Minute

type localBucket struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// RateLimiter throttles console writes per client IP. The bucket lives in
// redis so several console replicas share it; when redis is absent or
// failing it falls open to an in-process bucket.
type RateLimiter struct {
	rdb   *redis.Client
	rps   int
	burst int

	buckets   sync.Map
	sweepMu   sync.Mutex
	lastSweep time.Time
}

func NewRateLimiter(rdb *redis.Client, requestsPerSecond int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	return &RateLimiter{
		rdb:       rdb,
		rps:       requestsPerSecond,
		burst:     requestsPerSecond,
		lastSweep: time.Now(),
	}
}

// Middleware limits mutating methods only; reads pass straight through.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		ip := c.ClientIP()
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", l.rps))

		allowed, remaining, err := l.allowRedis(c.Request.Context(), ip)
		if err != nil {
			if l.rdb != nil {
				logger.Warn("redis rate limit failed, switching to local fallback",
					zap.Error(err),
					zap.String("ip", ip))
			}
			allowed, remaining = l.allowLocal(ip)
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		if !allowed {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too Many Requests"})
			return
		}
		c.Next()
	}
}

var errNoRedis = errors.New("rate limiter has no redis client")

func (l *RateLimiter) allowRedis(ctx context.Context, ip string) (bool, int, error) {
	if l.rdb == nil {
		return false, 0, errNoRedis
	}
	prefix := "yoladmin:ratelimit:" + ip
	now := float64(time.Now().UnixMicro()) / 1e6

	ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	result, err := tokenBucketScript.Run(ctx, l.rdb,
		[]string{prefix + ":tokens", prefix + ":ts"},
		float64(l.rps), float64(l.burst), now, 1,
	).Slice()
	if err != nil {
		return false, 0, err
	}
	if len(result) != 3 {
		return false, 0, fmt.Errorf("unexpected rate limit reply %v", result)
	}
	return toFloat(result[0]) == 1, int(toFloat(result[1])), nil
}

func (l *RateLimiter) allowLocal(ip string) (bool, int) {
	now := time.Now()
	l.sweep(now)

	val, _ := l.buckets.LoadOrStore(ip, &localBucket{
		limiter:  rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastSeen: now,
	})
	b := val.(*localBucket)
	b.mu.Lock()
	b.lastSeen = now
	b.mu.Unlock()

	if !b.limiter.AllowN(now, 1) {
		return false, 0
	}
	return true, int(b.limiter.TokensAt(now))
}

func (l *RateLimiter) sweep(now time.Time) {
	l.sweepMu.Lock()
	if now.Sub(l.lastSweep) < localIdle {
		l.sweepMu.Unlock()
		return
	}
	l.lastSweep = now
	l.sweepMu.Unlock()

	l.buckets.Range(func(key, value any) bool {
		b := value.(*localBucket)
		b.mu.Lock()
		idle := now.Sub(b.lastSeen) > localIdle
		b.mu.Unlock()
		if idle {
			l.buckets.Delete(key)
		}
		return true
	})
}

func toFloat(v any) float64 {
	switch val := v.(type) {
	case int64:
		return float64(val)
	case float64:
		return val
	case string:
		var f float64
		_, _ = fmt.Sscanf(val, "%g", &f)
		return f
	default:
		return 0
	}
}
