package middleware

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RedisLimiter is a fixed-window counter shared by every instance. Redis
// errors let the request through.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{key}, ttl, limit).Int64()
	if err != nil {
		log.Printf("redis rate limiter unavailable, allowing %s: %v", key, err)
		return true
	}
	return allowed == 1
}

// Handler limits requests per client IP under prefix.
func (l *RedisLimiter) Handler(prefix string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !l.Allow(c.UserContext(), "ratelimit:"+prefix+":"+c.IP(), limit, window) {
			return tooManyRequests(c)
		}
		return c.Next()
	}
}

// PublicRateLimiter uses Redis when available and the in-memory limiter otherwise.
func PublicRateLimiter(l *RedisLimiter, prefix string, limit int, window time.Duration) fiber.Handler {
	if l == nil {
		return RateLimiter(limit, window)
	}
	return l.Handler(prefix, limit, window)
}
