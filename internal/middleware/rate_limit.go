package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long an IP may stay quiet before its limiter is
// dropped. A full hour of silence means the bucket is refilled anyway.
const limiterIdleTTL = time.Hour

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu         sync.Mutex
	clients    map[string]*clientLimiter
	maxPerHour int
	now        func() time.Time
}

func newIPRateLimiter(maxPerHour int) *ipRateLimiter {
	return &ipRateLimiter{
		clients:    make(map[string]*clientLimiter),
		maxPerHour: maxPerHour,
		now:        time.Now,
	}
}

func (l *ipRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(l.maxPerHour)), l.maxPerHour),
		}
		l.clients[ip] = cl
	}
	cl.lastSeen = l.now()
	return cl.limiter.Allow()
}

// sweep drops limiters for IPs that have been idle past the TTL so the
// map does not grow without bound.
func (l *ipRateLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-limiterIdleTTL)
	for ip, cl := range l.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

func (l *ipRateLimiter) sweepLoop(interval time.Duration) {
	for range time.Tick(interval) {
		l.sweep()
	}
}

// RateLimit allows up to maxPerHour requests per client IP, refilled over a
// sliding hour. Idle IPs are evicted in the background.
func RateLimit(maxPerHour int) gin.HandlerFunc {
	l := newIPRateLimiter(maxPerHour)
	go l.sweepLoop(10 * time.Minute)

	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests from this IP, please try again in an hour!",
			})
			return
		}
		c.Next()
	}
}
