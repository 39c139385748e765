package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kirin-dashboard/internal/session"
	"kirin-dashboard/pkg/logger"
)

const sessionContextKey = "session"

// SessionMiddleware resolves the signed session cookie (or a bearer token
// carrying the same value) to a live editor session.
func SessionMiddleware(cookieName string, tokens *session.Tokens, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sessionToken(c, cookieName)
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization credentials required"})
			c.Abort()
			return
		}

		id, err := tokens.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			c.Abort()
			return
		}

		s, ok := sessions.Get(id)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session has ended, please sign in again"})
			c.Abort()
			return
		}

		c.Set(sessionContextKey, s)
		ctx := logger.ContextWithFields(c.Request.Context(), map[string]interface{}{
			"session_id": s.ID,
			"user_id":    s.User.ID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CurrentSession returns the session resolved by SessionMiddleware.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	s, ok := value.(*session.Session)
	return s, ok && s != nil
}

func sessionToken(c *gin.Context, cookieName string) string {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie(cookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
