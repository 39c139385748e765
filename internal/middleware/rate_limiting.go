package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// uploadsPerMinute bounds media uploads per client independently of the
// general limit.
const uploadsPerMinute = 10

// RateLimitMiddleware limits requests per client IP. A nil manager disables it.
func RateLimitMiddleware(manager *RateLimitManager, limit Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		if manager == nil || shouldBypassRateLimit(c.Request) {
			c.Next()
			return
		}

		limiter := manager.Visitor(c.ClientIP(), limit)
		if limiter != nil && !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// UploadRateLimitMiddleware applies the stricter upload bucket.
func UploadRateLimitMiddleware(manager *RateLimitManager) gin.HandlerFunc {
	limit := Limit{Requests: uploadsPerMinute, WindowSeconds: 60}
	return func(c *gin.Context) {
		if manager == nil {
			c.Next()
			return
		}

		limiter := manager.UploadLimiter(c.ClientIP(), limit)
		if limiter != nil && !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many uploads, please try again later",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Health checks, metrics scrapes and websocket upgrades are never limited.
func shouldBypassRateLimit(r *http.Request) bool {
	if r == nil || r.URL == nil {
		return false
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}

	switch r.URL.Path {
	case "/health", "/metrics", "/api/editor/events":
		return true
	}
	return false
}
