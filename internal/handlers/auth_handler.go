package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kirin-dashboard/internal/models"
	"kirin-dashboard/internal/service"
	"kirin-dashboard/internal/session"
)

// CookieConfig controls the dashboard session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	authService *service.AuthService
	tokens      *session.Tokens
	sessions    *session.Manager
	cookie      CookieConfig
}

func NewAuthHandler(authService *service.AuthService, tokens *session.Tokens, sessions *session.Manager, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, tokens: tokens, sessions: sessions, cookie: cookie}
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	secure := h.cookie.Secure || c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", secure, true)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	h.setCookie(c, result.Token, int(h.cookie.TTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"user":       result.Session.User,
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
	})
}

// Logout always clears the cookie. A session that can still be resolved is
// closed as well.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(h.cookie.Name); err == nil && raw != "" {
		if id, err := h.tokens.Parse(raw); err == nil {
			if s, ok := h.sessions.Get(id); ok {
				h.authService.Logout(c.Request.Context(), s)
			}
		}
	}

	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	user, err := h.authService.Profile(c.Request.Context(), s.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
