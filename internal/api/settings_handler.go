package api

import (
	"context"
	"net/http"

	"yoladmin/client"
	"yoladmin/internal/dto/req"
	"yoladmin/internal/dto/resp"
	"yoladmin/internal/middleware"
	v1 "yoladmin/pkg/api/v1"
	"yoladmin/pkg/constraints"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type SettingsProvider interface {
	GetBotSettings(ctx context.Context) (*v1.BotSettings, error)
	UpdateBotSettings(ctx context.Context, in v1.BotSettingsUpdate) (*v1.BotSettings, error)
	ListUsers(ctx context.Context, page int, f client.UserFilter) (*v1.Page[v1.User], error)
	GetStatistics(ctx context.Context) (v1.Statistics, error)
	CreateInviteLink(ctx context.Context, groupID string) (*v1.InviteLinkResult, error)
	RevokeInviteLink(ctx context.Context, groupID, link string) (*v1.InviteLinkResult, error)
}

type SettingsHandler struct {
	base
	svc SettingsProvider
}

func NewSettingsHandler(svc SettingsProvider, guard *middleware.AuthGuard) *SettingsHandler {
	return &SettingsHandler{base: base{guard: guard}, svc: svc}
}

func (h *SettingsHandler) GetBotSettings(c *gin.Context) {
	settings, err := h.svc.GetBotSettings(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateBotSettings(c *gin.Context) {
	var in v1.BotSettingsUpdate
	if !h.bindJSON(c, &in) {
		return
	}
	settings, err := h.svc.UpdateBotSettings(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Tab loads the bot settings and the first page of users concurrently.
func (h *SettingsHandler) Tab(c *gin.Context) {
	var out resp.SettingsTabResp
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		settings, err := h.svc.GetBotSettings(ctx)
		out.BotSettings = settings
		return err
	})
	g.Go(func() error {
		users, err := h.svc.ListUsers(ctx, 1, client.UserFilter{})
		if err != nil {
			return err
		}
		out.Users = resp.NewPage(users, 1, constraints.PageSizeDefault, resp.Identity[v1.User])
		return nil
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *SettingsHandler) Statistics(c *gin.Context) {
	stats, err := h.svc.GetStatistics(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *SettingsHandler) CreateInviteLink(c *gin.Context) {
	var body req.InviteLinkReq
	if err := c.ShouldBindJSON(&body); err != nil {
		h.badRequest(c, "group_id is required")
		return
	}
	res, err := h.svc.CreateInviteLink(c.Request.Context(), body.GroupID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *SettingsHandler) RevokeInviteLink(c *gin.Context) {
	var body req.InviteLinkReq
	if err := c.ShouldBindJSON(&body); err != nil || body.InviteLink == "" {
		h.badRequest(c, "group_id and invite_link are required")
		return
	}
	res, err := h.svc.RevokeInviteLink(c.Request.Context(), body.GroupID, body.InviteLink)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
