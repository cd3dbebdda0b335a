package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/rando-pics/api-go/utils"
)

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles an endpoint per authenticated user. Stale
// entries are evicted so the map does not grow with every user ever
// seen.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[uint]*userLimiter
	rate     rate.Limit
	burst    int
	ttl      time.Duration
}

// NewRateLimiter allows perMinute requests per user with the given
// burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[uint]*userLimiter),
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		ttl:      10 * time.Minute,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.GetUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
			c.Abort()
			return
		}

		if !rl.allow(user.UserID) {
			c.Header("Retry-After", fmt.Sprintf("%d", int(1/float64(rl.rate))+1))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(userID uint) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	ul, ok := rl.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[userID] = ul
	}
	ul.lastAccess = now

	// Opportunistic eviction of idle entries.
	for id, other := range rl.limiters {
		if now.Sub(other.lastAccess) > rl.ttl {
			delete(rl.limiters, id)
		}
	}

	return ul.limiter.Allow()
}
