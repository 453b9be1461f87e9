package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartblog/server/internal/shared/cache"
)

// RateLimit returns a middleware that limits requests per authenticated user
// using a sliding window in Redis. A nil limiter disables limiting, so the
// server still works without Redis.
func RateLimit(limiter *cache.RateLimiter, prefix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		userID, ok := UserID(c)
		if !ok {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", prefix, userID)
		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			// Limiter failure must not take the feature down
			c.Next()
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
			})
			return
		}

		c.Next()
	}
}
