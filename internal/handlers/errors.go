package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"kirin-dashboard/internal/client"
	"kirin-dashboard/internal/middleware"
	"kirin-dashboard/internal/session"
	"kirin-dashboard/pkg/logger"
)

// respondError maps CMS and internal failures onto HTTP responses. Client
// errors from the CMS pass through; its server errors become 502.
func respondError(c *gin.Context, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "CMS session expired, please sign in again"})
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.StatusCode)
		}
		c.JSON(status, gin.H{"error": message})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "CMS did not respond in time"})
	default:
		logger.FromContext(c.Request.Context()).WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// requireSession returns the request's session or writes a 401.
func requireSession(c *gin.Context) (*session.Session, bool) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization credentials required"})
		return nil, false
	}
	return s, true
}
