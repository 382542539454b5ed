package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiters hands out one token bucket per client IP
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	rps      rate.Limit
	burst    int
	idleTTL  time.Duration
	lastGC   time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		lastGC:   time.Now(),
	}
}

func (l *clientLimiters) get(ip string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastGC) > l.idleTTL {
		for key, cl := range l.limiters {
			if now.Sub(cl.lastSeen) > l.idleTTL {
				delete(l.limiters, key)
			}
		}
		l.lastGC = now
	}

	cl, ok := l.limiters[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// RateLimitingMiddleware applies a token bucket of rps requests per second
// with the given burst to each client IP
func RateLimitingMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiters := newClientLimiters(rps, burst)
	retryAfter := strconv.Itoa(int(math.Max(1, math.Ceil(1/rps))))

	return func(c *gin.Context) {
		limiter := limiters.get(c.ClientIP(), time.Now())
		if !limiter.Allow() {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			return
		}
		c.Next()
	}
}
