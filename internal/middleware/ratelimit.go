package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	internalRedis "transfera/internal/redis"
)

// RateLimit limits mutating requests per authenticated caller. Unauthenticated
// requests fall back to the client IP.
func RateLimit(limiter internalRedis.RateLimiterInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := CallerID(c)
		if key == "" {
			key = c.ClientIP()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// Redis error - fail open.
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
