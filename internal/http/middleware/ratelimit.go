package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/howscary-backend/internal/platform/logger"
	"github.com/yungbote/howscary-backend/internal/platform/ratelimit"
)

// RateLimit limits authenticated callers per user ID. It must run after
// RequireAuth. A limiter failure lets the request through.
func RateLimit(log *logger.Logger, limiter ratelimit.Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if limiter == nil || user == nil {
			c.Next()
			return
		}
		res, err := limiter.Check(c.Request.Context(), scope+":"+user.ID.String())
		if err != nil {
			log.Warn("Rate limiter unavailable; allowing request", "scope", scope, "error", err)
			c.Next()
			return
		}
		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
		if res.Allowed {
			c.Next()
			return
		}
		retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		h.Set("Retry-After", strconv.Itoa(retryAfter))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":      gin.H{"message": "rate limit exceeded", "code": "rate_limited"},
			"retryAfter": retryAfter,
			"resetAt":    res.ResetAt.UTC(),
		})
	}
}
