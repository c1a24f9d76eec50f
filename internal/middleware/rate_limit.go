// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/phelcone/phelcone-backend/internal/config"
)

// ipLimiter keeps one token bucket per client IP. Buckets idle for longer
// than the eviction window have refilled anyway, so they are dropped to keep
// the map bounded.
type ipLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const bucketIdleWindow = 3 * time.Minute

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	l := &ipLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
	}
	go l.evictIdle()
	return l
}

func (l *ipLimiter) evictIdle() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		for ip, b := range l.buckets {
			if time.Since(b.lastSeen) > bucketIdleWindow {
				delete(l.buckets, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

func (l *ipLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RateLimits carries the three tiers the storefront throttles differently:
// general traffic, credential endpoints, and image uploads.
type RateLimits struct {
	general *ipLimiter
	auth    *ipLimiter
	upload  *ipLimiter
}

func NewRateLimits(cfg config.RateLimitConfig) *RateLimits {
	return &RateLimits{
		general: newIPLimiter(rate.Limit(cfg.GeneralPerSecond), cfg.GeneralPerSecond),
		auth:    newIPLimiter(perMinute(cfg.AuthPerMinute), cfg.AuthPerMinute),
		upload:  newIPLimiter(perMinute(cfg.UploadPerMinute), cfg.UploadPerMinute),
	}
}

func perMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60.0)
}

func (r *RateLimits) General() gin.HandlerFunc { return r.general.middleware() }
func (r *RateLimits) Auth() gin.HandlerFunc    { return r.auth.middleware() }
func (r *RateLimits) Upload() gin.HandlerFunc  { return r.upload.middleware() }
