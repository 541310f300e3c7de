package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/turtacn/precinct-analytics/pkg/errors"
)

// RateLimitConfig configures per-client token buckets.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64
	// BurstSize is the maximum burst above the sustained rate.
	BurstSize int
	// KeyFunc extracts the client key; nil uses the client IP.
	KeyFunc func(c *gin.Context) string
	// SkipPaths bypass rate limiting.
	SkipPaths []string
	// IdleTTL is how long an unused client bucket is kept.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns a config for rps requests per second.
func DefaultRateLimitConfig(rps float64, burst int) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: rps,
		BurstSize:         burst,
		SkipPaths:         []string{"/healthz", "/readyz", "/metrics"},
		IdleTTL:           10 * time.Minute,
	}
}

// Limiter hands out one token bucket per client key.  Idle buckets expire
// from the cache.
type Limiter struct {
	limit   rate.Limit
	burst   int
	buckets *cache.Cache
}

// NewLimiter creates a Limiter.  A non-positive burst is raised to one.
func NewLimiter(rps float64, burst int, idleTTL time.Duration) *Limiter {
	if burst < 1 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &Limiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		buckets: cache.New(idleTTL, idleTTL),
	}
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	if v, ok := l.buckets.Get(key); ok {
		return v.(*rate.Limiter)
	}
	b := rate.NewLimiter(l.limit, l.burst)
	if err := l.buckets.Add(key, b, cache.DefaultExpiration); err != nil {
		// lost the race; use the winner
		if v, ok := l.buckets.Get(key); ok {
			return v.(*rate.Limiter)
		}
	}
	return b
}

// Allow reports whether key may proceed now, the tokens left, and how long to
// wait before retrying when it may not.
func (l *Limiter) Allow(key string) (bool, int, time.Duration) {
	b := l.bucket(key)
	now := time.Now()
	r := b.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, time.Second
	}
	if d := r.DelayFrom(now); d > 0 {
		r.CancelAt(now)
		return false, 0, d
	}
	l.buckets.SetDefault(key, b)
	return true, int(math.Max(0, b.TokensAt(now))), 0
}

// RateLimit rejects clients that exceed config with 429 and a Retry-After
// header.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	limiter := NewLimiter(config.RequestsPerSecond, config.BurstSize, config.IdleTTL)
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}
	limit := strconv.Itoa(limiter.burst)

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		ok, remaining, wait := limiter.Allow(keyFunc(c))
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    string(errors.ErrCodeRateLimited),
				"message": errors.DefaultMessageForCode(errors.ErrCodeRateLimited),
			})
			return
		}
		c.Next()
	}
}

//Personal.AI order the ending
