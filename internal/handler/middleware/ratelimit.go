package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"venue-reservation/internal/handler/httperr"
	"venue-reservation/internal/infra/cache"
	"venue-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

var errRateLimited = errs.New("rate limit exceeded")

type RateLimiter interface {
	Allow(ctx context.Context, key string) (cache.Decision, error)
}

// RateLimit keys buckets by client IP and route. A nil limiter or a store error lets
// the request through.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP() + ":route:" + c.Request.Method + " " + c.FullPath()

		d, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			httperr.AbortWithCode(c, http.StatusTooManyRequests, errRateLimited, "too_many_requests", "Rate limit exceeded",
				gin.H{"retryAfter": secs})
			return
		}
		c.Next()
	}
}
