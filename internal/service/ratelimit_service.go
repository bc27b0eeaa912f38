package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/pkg/config"
)

const rateLimitPrefix = "ratelimit:"

// RateLimitClassExport is the operation class shared by every export route.
const RateLimitClassExport = "export"

// Limit allows Max requests per Window.
type Limit struct {
	Max    int
	Window time.Duration
}

// redisRateLimiter is a fixed window counter per (class, caller). Each
// window key carries a TTL equal to the window, so idle callers leave
// nothing behind.
type redisRateLimiter struct {
	rdb    *redis.Client
	limits map[string]Limit
}

func NewRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         config.GetString("cache.redis.addr"),
		Password:     config.GetString("cache.redis.password"),
		DB:           config.GetInt("cache.redis.db"),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func NewRedisRateLimiter(rdb *redis.Client, limits map[string]Limit) *redisRateLimiter {
	return &redisRateLimiter{rdb: rdb, limits: limits}
}

// LimitsFromConfig reads rate_limit.<class>.max_requests and .duration (seconds).
func LimitsFromConfig(classes ...string) map[string]Limit {
	limits := make(map[string]Limit, len(classes))
	for _, class := range classes {
		limits[class] = Limit{
			Max:    config.GetInt("rate_limit." + class + ".max_requests"),
			Window: time.Duration(config.GetInt("rate_limit."+class+".duration")) * time.Second,
		}
	}
	return limits
}

// Allow counts the request and reports whether it fits the class limit.
// Classes without a limit are always allowed. When Redis fails the request
// is allowed and the error returned for logging.
func (l *redisRateLimiter) Allow(ctx context.Context, class, caller string) (bool, error) {
	limit, ok := l.limits[class]
	if !ok || limit.Max <= 0 || limit.Window <= 0 {
		return true, nil
	}
	key := fmt.Sprintf("%s%s:%s", rateLimitPrefix, class, caller)

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("%w: %v", constant.ErrCacheError, err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, limit.Window).Err(); err != nil {
			return true, fmt.Errorf("%w: %v", constant.ErrCacheError, err)
		}
	} else if ttl, err := l.rdb.TTL(ctx, key).Result(); err == nil && ttl < 0 {
		// the expire of the first request was lost
		if err := l.rdb.Expire(ctx, key, limit.Window).Err(); err != nil {
			return count <= int64(limit.Max), fmt.Errorf("%w: %v", constant.ErrCacheError, err)
		}
	}
	return count <= int64(limit.Max), nil
}
