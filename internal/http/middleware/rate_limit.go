package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// A limiter refills its whole burst within a minute, so one idle that long
// behaves like a new one and can be dropped.
const limiterIdleTTL = time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters hands out one token bucket per client IP and sweeps idle ones.
type ipLimiters struct {
	mu        sync.Mutex
	every     rate.Limit
	burst     int
	now       func() time.Time
	entries   map[string]*ipLimiter
	lastSweep time.Time
}

func newIPLimiters(perMinute int) *ipLimiters {
	return &ipLimiters{
		every:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   perMinute,
		now:     time.Now,
		entries: map[string]*ipLimiter{},
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= limiterIdleTTL {
		for key, e := range l.entries {
			if now.Sub(e.lastSeen) >= limiterIdleTTL {
				delete(l.entries, key)
			}
		}
		l.lastSweep = now
	}

	e, ok := l.entries[ip]
	if !ok {
		e = &ipLimiter{limiter: rate.NewLimiter(l.every, l.burst)}
		l.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (l *ipLimiters) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// RateLimitPerIP allows perMinute requests per client IP with a burst of the same size.
func RateLimitPerIP(perMinute int, log *zap.Logger) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	limiters := newIPLimiters(perMinute)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			log.Warn("rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many requests, try again later",
				"code":        "rate_limited",
				"retry_after": "60s",
			})
			return
		}
		c.Next()
	}
}
