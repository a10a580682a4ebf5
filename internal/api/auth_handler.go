package api

import (
	"context"
	"net/http"

	"yoladmin/client"
	"yoladmin/internal/dto/req"
	"yoladmin/internal/dto/resp"
	"yoladmin/internal/metrics"
	"yoladmin/internal/middleware"
	v1 "yoladmin/pkg/api/v1"
	"yoladmin/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthProvider interface {
	Login(ctx context.Context, username, password string) (*v1.TokenPair, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	CurrentUser(ctx context.Context) (*v1.AuthUser, error)
	SessionInfo() client.SessionInfo
}

type AuthHandler struct {
	base
	svc   AuthProvider
	prefs *client.Preferences
	obs   metrics.ConsoleObserver
}

func NewAuthHandler(svc AuthProvider, prefs *client.Preferences, guard *middleware.AuthGuard, obs metrics.ConsoleObserver) *AuthHandler {
	return &AuthHandler{base: base{guard: guard}, svc: svc, prefs: prefs, obs: obs}
}

// LoginState is the landing page of the guard's redirect.
func (h *AuthHandler) LoginState(c *gin.Context) {
	c.JSON(http.StatusOK, resp.LoginStateResp{Authenticated: h.svc.IsAuthenticated() && h.guard.Admitted(c)})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body req.LoginReq
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "username and password are required")
		return
	}

	ctx := c.Request.Context()
	if _, err := h.svc.Login(ctx, body.Username, body.Password); err != nil {
		if client.StatusCode(err) == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, err)
		return
	}
	h.obs.SetSessionActive(true)

	user, err := h.svc.CurrentUser(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.guard.Issue(c)
	logger.Info("operator logged in", zap.String("username", user.Username))
	c.JSON(http.StatusOK, h.me(ctx, user))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context()); err != nil {
		logger.Error("logout failed", zap.Error(err))
	}
	h.guard.Revoke(c)
	h.obs.SetSessionActive(false)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, h.me(c.Request.Context(), middleware.Operator(c)))
}

func (h *AuthHandler) me(ctx context.Context, user *v1.AuthUser) resp.MeResp {
	out := resp.MeResp{User: user}
	if info := h.svc.SessionInfo(); !info.ExpiresAt.IsZero() {
		out.ExpiresAt = &info.ExpiresAt
	}
	open, err := h.prefs.SidebarOpen(ctx)
	if err != nil {
		logger.Warn("read sidebar preference", zap.Error(err))
	}
	out.SidebarOpen = open
	return out
}

func (h *AuthHandler) SetSidebar(c *gin.Context) {
	var body req.SidebarReq
	if !h.bindJSON(c, &body) {
		return
	}
	if err := h.prefs.SetSidebarOpen(c.Request.Context(), *body.Open); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sidebar_open": *body.Open})
}
