package middleware

import (
	"net/http"
	"sync"
	"time"

	"rentalhub/pkg/errors"
	"rentalhub/pkg/logger"
	"rentalhub/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var timeNow = time.Now

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a token bucket per client IP.
type RateLimiter struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	done    chan struct{}
	stopped sync.Once
}

// NewRateLimiter starts a cleanup goroutine; call Stop to end it.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
		idleTTL: 30 * time.Minute,
		done:    make(chan struct{}),
	}
	go rl.cleanupLoop(10 * time.Minute)
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopped.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = timeNow()
	return cl.limiter
}

func (rl *RateLimiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			if n := rl.evictIdle(); n > 0 {
				logger.WithModule("ratelimit").Debugf("Removed %d idle clients", n)
			}
		}
	}
}

func (rl *RateLimiter) evictIdle() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	count := 0
	for key, cl := range rl.clients {
		if timeNow().Sub(cl.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
			count++
		}
	}
	return count
}

// Limit is the gin handler. A non-positive rate disables limiting.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}
		if !rl.get(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
				Code:    errors.CodeTooMany,
				Message: "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
