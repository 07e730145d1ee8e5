package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"precastcatalog/utils"
)

// RateLimiter limits requests per client IP. It counts in redis when a client is given and
// falls back to in-process token buckets otherwise or when redis fails.
type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *localLimiter
	limit    redis_rate.Limit
	prefix   string
	log      *zap.Logger
}

func NewRateLimiter(rdb *redis.Client, requests int, period time.Duration, prefix string, log *zap.Logger) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if period <= 0 {
		period = time.Minute
	}
	rl := &RateLimiter{
		fallback: newLocalLimiter(),
		limit:    redis_rate.Limit{Rate: requests, Burst: requests, Period: period},
		prefix:   prefix,
		log:      log,
	}
	if rdb != nil {
		rl.limiter = redis_rate.NewLimiter(rdb)
	}
	return rl
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + rl.prefix + ":" + c.ClientIP()
		res := rl.allow(c.Request.Context(), key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit.Rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if res.Allowed == 0 {
			retry := int(res.RetryAfter.Seconds())
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			utils.ErrorResponse(c, http.StatusTooManyRequests,
				fmt.Sprintf("Too many attempts. Try again in %d seconds.", retry), "RATE_LIMITED")
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ctx context.Context, key string) *redis_rate.Result {
	if rl.limiter != nil {
		res, err := rl.limiter.Allow(ctx, key, rl.limit)
		if err == nil {
			return res
		}
		rl.log.Warn("[RateLimit] redis unavailable, using local limiter", zap.Error(err))
	}
	return rl.fallback.allow(key, rl.limit, time.Now())
}

const localEntryTTL = 10 * time.Minute

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

type localLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	lastSweep time.Time
}

func newLocalLimiter() *localLimiter {
	return &localLimiter{entries: make(map[string]*limiterEntry)}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit, now time.Time) *redis_rate.Result {
	perSec := float64(limit.Rate) / limit.Period.Seconds()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > localEntryTTL {
		for k, e := range l.entries {
			if now.Sub(e.lastAccess) > localEntryTTL {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(perSec), limit.Burst)}
		l.entries[key] = e
	}
	e.lastAccess = now

	res := &redis_rate.Result{Limit: limit, RetryAfter: -1, ResetAfter: time.Duration(float64(time.Second) / perSec)}
	if e.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = time.Duration(float64(time.Second) / perSec)
	}
	if rem := int(e.limiter.TokensAt(now)); rem > 0 {
		res.Remaining = rem
	}
	return res
}
