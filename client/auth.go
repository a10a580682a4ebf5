package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	v1 "yoladmin/pkg/api/v1"
	"yoladmin/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Login exchanges credentials for a token pair and stores both tokens.
func (c *Client) Login(ctx context.Context, username, password string) (*v1.TokenPair, error) {
	var pair v1.TokenPair
	err := c.do(ctx, &request{
		method:   http.MethodPost,
		path:     "/token/",
		body:     v1.Credentials{Username: username, Password: password},
		authCall: true,
	}, &pair)
	if err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, errNoAccessToken
	}
	if err := c.session.SetTokens(ctx, pair.Access, pair.Refresh); err != nil {
		return &pair, err
	}
	logger.Info("operator logged in", zap.String("username", username))
	return &pair, nil
}

// RefreshAccessToken forces a refresh, joining one already in flight.
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	if _, ok := c.session.RefreshToken(); !ok {
		return ErrSessionExpired
	}
	_, err := c.sharedRefresh(ctx, c.exchangeRefresh)
	return err
}

// Logout drops the session locally; the backend keeps no session state.
func (c *Client) Logout(ctx context.Context) error {
	err := c.session.Clear(ctx)
	if c.onUnauth != nil {
		c.onUnauth()
	}
	return err
}

func (c *Client) IsAuthenticated() bool {
	_, ok := c.session.AccessToken()
	return ok
}

// CurrentUser asks the backend who the access token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*v1.AuthUser, error) {
	var u v1.AuthUser
	if err := c.do(ctx, &request{method: http.MethodGet, path: "/auth/user/"}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SessionInfo describes the current access token for display and logs.
type SessionInfo struct {
	Authenticated bool
	Subject       string
	// ExpiresAt is zero when the token is opaque or carries no exp claim.
	ExpiresAt time.Time
}

func (s SessionInfo) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// SessionInfo decodes the access token without verifying it; the client
// never holds the signing key.
func (c *Client) SessionInfo() SessionInfo {
	token, ok := c.session.AccessToken()
	if !ok {
		return SessionInfo{}
	}
	info := SessionInfo{Authenticated: true}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		if !errors.Is(err, jwt.ErrTokenMalformed) {
			logger.Debug("access token claims unreadable", zap.Error(err))
		}
		return info
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	return info
}
