// server/internal/api/middleware/security.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"devcamper-api-server/config"
	"devcamper-api-server/internal/apperror"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	defaultRateLimitRequests = 100
	defaultRateLimitWindow   = 10 * time.Minute
)

// RateLimit allows a fixed number of requests per client IP within the
// configured window. Requests over budget get 429.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	requests := cfg.Requests
	if requests <= 0 {
		requests = defaultRateLimitRequests
	}

	window, err := time.ParseDuration(cfg.Window)
	if err != nil || window <= 0 {
		window = defaultRateLimitWindow
	}

	var mu sync.Mutex
	limiters := map[string]*rate.Limiter{}

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)
			limiters[ip] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			abortWithError(c, apperror.New(http.StatusTooManyRequests, "Too many requests, please try again later"))
			return
		}

		c.Next()
	}
}
