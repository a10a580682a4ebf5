package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"sync"

	"yoladmin/client"
	v1 "yoladmin/pkg/api/v1"
	"yoladmin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	operatorKey = "operator"

	// SessionCookie carries the console session issued on login.
	SessionCookie = "yoladmin_session"
)

// SessionSource is what the guard needs from the API client.
type SessionSource interface {
	Session() *client.SessionStore
	CurrentUser(ctx context.Context) (*v1.AuthUser, error)
}

// AuthGuard admits console requests only from the browser that logged in,
// and only while the shared session belongs to a verified operator.
//
// A login issues a random console session id in an HttpOnly cookie, bound
// to the generation of the token pair it created. Requests without that
// cookie, or after the pair was cleared or replaced, are sent to the login
// page. Each access token is verified against the backend once; later
// requests carrying the same token skip the who-am-I call.
type AuthGuard struct {
	src       SessionSource
	loginPath string

	mu        sync.RWMutex
	sessionID string
	boundGen  uint64
	verified  string
	operator  *v1.AuthUser
	group     singleflight.Group
}

func NewAuthGuard(src SessionSource, loginPath string) *AuthGuard {
	return &AuthGuard{src: src, loginPath: loginPath}
}

func (g *AuthGuard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == g.loginPath || c.Request.URL.Path == g.loginPath {
			c.Next()
			return
		}

		if !g.Admitted(c) {
			g.Redirect(c)
			return
		}
		token, ok := g.src.Session().AccessToken()
		if !ok {
			g.Redirect(c)
			return
		}

		op, err := g.verify(c.Request.Context(), token)
		if err != nil {
			logger.Warn("session verification failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			g.Redirect(c)
			return
		}
		c.Set(operatorKey, op)
		c.Next()
	}
}

func (g *AuthGuard) verify(ctx context.Context, token string) (*v1.AuthUser, error) {
	g.mu.RLock()
	if g.verified == token && g.operator != nil {
		op := g.operator
		g.mu.RUnlock()
		return op, nil
	}
	g.mu.RUnlock()

	// The flight outlives whichever request started it; each waiter gives
	// up on its own context only.
	flightCtx := context.WithoutCancel(ctx)
	ch := g.group.DoChan(token, func() (any, error) {
		user, err := g.src.CurrentUser(flightCtx)
		if err != nil {
			return nil, err
		}
		// CurrentUser may have refreshed; remember whichever token it ended on.
		current, _ := g.src.Session().AccessToken()
		g.mu.Lock()
		g.verified, g.operator = current, user
		g.mu.Unlock()
		return user, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*v1.AuthUser), nil
	}
}

// Issue starts a console session for the browser of c, replacing any
// previous one. Call it after a successful login.
func (g *AuthGuard) Issue(c *gin.Context) {
	id := uuid.NewString()
	g.mu.Lock()
	g.sessionID, g.boundGen = id, g.src.Session().Generation()
	g.verified, g.operator = "", nil
	g.mu.Unlock()
	g.setCookie(c, id, 0)
}

// Revoke ends the console session and expires the cookie.
func (g *AuthGuard) Revoke(c *gin.Context) {
	g.mu.Lock()
	g.sessionID = ""
	g.verified, g.operator = "", nil
	g.mu.Unlock()
	g.setCookie(c, "", -1)
}

// Admitted reports whether c carries the current console session.
func (g *AuthGuard) Admitted(c *gin.Context) bool {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie == "" {
		return false
	}
	g.mu.RLock()
	id, gen := g.sessionID, g.boundGen
	g.mu.RUnlock()
	if id == "" || gen != g.src.Session().Generation() {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie), []byte(id)) == 1
}

func (g *AuthGuard) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, maxAge, "/", "", c.Request.TLS != nil, true)
}

// Forget drops the verified operator, forcing the next request to verify.
func (g *AuthGuard) Forget() {
	g.mu.Lock()
	g.verified, g.operator = "", nil
	g.mu.Unlock()
}

// Redirect sends the caller to the login route: 302 for safe methods, 303
// otherwise so the browser follows with a GET.
func (g *AuthGuard) Redirect(c *gin.Context) {
	code := http.StatusSeeOther
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		code = http.StatusFound
	}
	c.Redirect(code, g.loginPath)
	c.Abort()
}

// Operator returns the verified operator of the request, if any.
func Operator(c *gin.Context) *v1.AuthUser {
	v, ok := c.Get(operatorKey)
	if !ok {
		return nil
	}
	op, _ := v.(*v1.AuthUser)
	return op
}
