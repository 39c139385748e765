package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kirin-dashboard/internal/client"
	"kirin-dashboard/internal/models"
	"kirin-dashboard/internal/session"
	"kirin-dashboard/pkg/cache"
	"kirin-dashboard/pkg/logger"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService struct {
	api        CMSAuth
	sessions   *session.Manager
	tokens     *session.Tokens
	cache      *cache.Cache
	profileTTL time.Duration
}

func NewAuthService(api CMSAuth, sessions *session.Manager, tokens *session.Tokens, cacheService *cache.Cache, profileTTL time.Duration) *AuthService {
	return &AuthService{
		api:        api,
		sessions:   sessions,
		tokens:     tokens,
		cache:      cacheService,
		profileTTL: profileTTL,
	}
}

// LoginResult is a freshly opened session plus the signed cookie value for it.
type LoginResult struct {
	Session   *session.Session
	Token     string
	ExpiresAt time.Time
}

// Login authenticates against the CMS, opens an editor session and loads
// its page list.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	backendToken, err := s.api.Login(ctx, email, req.Password)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("cms login failed: %w", err)
	}

	user, err := s.Profile(ctx, backendToken)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.Create(backendToken, user)
	signed, expires, err := s.tokens.Issue(sess.ID)
	if err != nil {
		s.sessions.Delete(sess.ID)
		return nil, err
	}

	sess.Loader.LoadPages(ctx)

	logger.FromContext(ctx).WithField("user_id", user.ID).Info("User signed in")
	return &LoginResult{Session: sess, Token: signed, ExpiresAt: expires}, nil
}

// Profile returns the CMS profile for token, using the cache when enabled.
func (s *AuthService) Profile(ctx context.Context, token string) (models.User, error) {
	var user models.User
	if err := s.cache.GetCachedProfile(token, &user); err == nil {
		return user, nil
	}

	user, err := s.api.Me(ctx, token)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to load profile: %w", err)
	}

	if err := s.cache.CacheProfile(token, user, s.profileTTL); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to cache profile")
	}
	return user, nil
}

// Logout ends the session locally even when the CMS call fails.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) {
	if err := s.api.Logout(ctx, sess.Token); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("CMS logout failed")
	}
	if err := s.cache.InvalidateProfile(sess.Token); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to invalidate cached profile")
	}
	if err := s.cache.InvalidatePages(sess.Token); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to invalidate cached pages")
	}
	s.sessions.Delete(sess.ID)
}
