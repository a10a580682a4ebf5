package client

import (
	"context"
	"errors"
	"net/http"

	v1 "yoladmin/pkg/api/v1"
	"yoladmin/pkg/logger"

	"go.uber.org/zap"
)

type callState int

const (
	stateInitial callState = iota
	stateRefreshing
	stateRetrying
	stateFailed
)

func (s callState) String() string {
	switch s {
	case stateInitial:
		return "initial"
	case stateRefreshing:
		return "refreshing"
	case stateRetrying:
		return "retrying"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const refreshKey = "refresh"

var errNoAccessToken = errors.New("refresh response carried no access token")

// do runs one logical call: send, and on a 401 refresh the access token
// once and resend. Auth calls bypass the refresh path entirely.
func (c *Client) do(ctx context.Context, r *request, out any) error {
	p, err := r.encode()
	if err != nil {
		return err
	}
	if r.authCall {
		return c.send(ctx, r, p, "", out)
	}

	token, _ := c.session.AccessToken()
	state := stateInitial
	for {
		if state != stateInitial {
			logger.Debug("call state", zap.String("path", r.path), zap.Stringer("state", state))
		}
		switch state {
		case stateInitial:
			err := c.send(ctx, r, p, token, out)
			if StatusCode(err) != http.StatusUnauthorized {
				return err
			}
			if _, ok := c.session.RefreshToken(); !ok {
				return err
			}
			state = stateRefreshing

		case stateRefreshing:
			fresh, err := c.refreshAfter(ctx, token)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				state = stateFailed
				continue
			}
			token = fresh
			state = stateRetrying

		case stateRetrying:
			return c.send(ctx, r, p, token, out)

		case stateFailed:
			return &APIError{
				Status:  http.StatusUnauthorized,
				Message: "unauthorized: could not refresh token",
				Err:     ErrSessionExpired,
			}
		}
	}
}

// refreshAfter returns an access token newer than sent. If another caller
// already replaced sent, the current token is reused without a refresh call.
// The check is repeated inside the flight, since a flight that finished
// between the first check and DoChan is forgotten by the group.
func (c *Client) refreshAfter(ctx context.Context, sent string) (string, error) {
	if current, ok := c.fresherThan(sent); ok {
		return current, nil
	}
	return c.sharedRefresh(ctx, func(ctx context.Context) (string, error) {
		if current, ok := c.fresherThan(sent); ok {
			return current, nil
		}
		return c.exchangeRefresh(ctx)
	})
}

func (c *Client) fresherThan(sent string) (string, bool) {
	current, ok := c.session.AccessToken()
	if !ok || current == sent {
		return "", false
	}
	c.observer.RecordRefresh(RefreshSkipped)
	return current, true
}

// sharedRefresh joins the in-flight refresh or starts one with fn. The
// flight is detached from ctx so a cancelled waiter does not fail the
// others; the waiter just stops waiting.
func (c *Client) sharedRefresh(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := c.refreshGroup.DoChan(refreshKey, func() (any, error) {
		return fn(flightCtx)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.observer.RecordRefresh(RefreshCoalesced)
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// exchangeRefresh trades the refresh token for a new access token. On
// failure the session is cleared and the unauthenticated hook fires, once
// per failed exchange however many callers were waiting on it. Results for
// a session that was logged out or replaced while the exchange ran are
// dropped.
func (c *Client) exchangeRefresh(ctx context.Context) (string, error) {
	gen := c.session.Generation()
	refresh, ok := c.session.RefreshToken()
	if !ok {
		c.observer.RecordRefresh(RefreshFailure)
		c.expire(ctx, gen, ErrSessionExpired)
		return "", ErrSessionExpired
	}

	logger.Info("refreshing access token")
	var tok v1.AccessToken
	err := c.do(ctx, &request{
		method:   http.MethodPost,
		path:     "/token/refresh/",
		body:     v1.RefreshRequest{Refresh: refresh},
		authCall: true,
	}, &tok)
	if err == nil && tok.Access == "" {
		err = errNoAccessToken
	}
	if err != nil {
		c.observer.RecordRefresh(RefreshFailure)
		c.expire(ctx, gen, err)
		return "", err
	}

	// A rotating backend may hand out a new refresh token; otherwise the
	// stored one is kept.
	applied, err := c.session.SetTokensIf(ctx, gen, tok.Access, tok.Refresh)
	if err != nil {
		logger.Warn("refreshed token not persisted", zap.Error(err))
	}
	if !applied {
		logger.Info("dropping refreshed token for a superseded session")
		c.observer.RecordRefresh(RefreshFailure)
		if current, ok := c.session.AccessToken(); ok {
			return current, nil
		}
		return "", ErrSessionExpired
	}
	c.observer.RecordRefresh(RefreshSuccess)
	logger.Info("access token refreshed")
	return tok.Access, nil
}

// expire clears the session of generation gen. A session that has already
// moved on is left alone and the hook does not fire again.
func (c *Client) expire(ctx context.Context, gen uint64, cause error) {
	logger.Warn("session expired, clearing tokens", zap.Error(cause))
	cleared, err := c.session.ClearIf(ctx, gen)
	if err != nil {
		logger.Warn("failed to clear expired session", zap.Error(err))
	}
	if !cleared {
		return
	}
	if c.onUnauth != nil {
		c.onUnauth()
	}
}
