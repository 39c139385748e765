package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

func SecurityHeadersMiddleware(imageOrigins []string) gin.HandlerFunc {
	policy := buildContentSecurityPolicy(imageOrigins)
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Header("Content-Security-Policy", policy)
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

// buildContentSecurityPolicy allows the inline styles preview markup uses
// and images from the CMS origins, but no scripts beyond the dashboard's own.
func buildContentSecurityPolicy(imageOrigins []string) string {
	img := []string{"'self'", "data:", "blob:"}
	for _, origin := range imageOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			img = append(img, origin)
		}
	}

	directives := []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src " + strings.Join(img, " "),
		"connect-src 'self'",
		"object-src 'none'",
		"base-uri 'self'",
		"frame-ancestors 'self'",
	}
	return strings.Join(directives, "; ")
}
