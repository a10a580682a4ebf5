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
)

type UserProvider interface {
	ListUsers(ctx context.Context, page int, f client.UserFilter) (*v1.Page[v1.User], error)
	SearchUsers(ctx context.Context, text string, page int) (*v1.Page[v1.User], error)
	GetUser(ctx context.Context, id int64) (*v1.User, error)
	CreateUser(ctx context.Context, in v1.CreateUserInput) (*v1.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UserHandler struct {
	base
	svc UserProvider
}

func NewUserHandler(svc UserProvider, guard *middleware.AuthGuard) *UserHandler {
	return &UserHandler{base: base{guard: guard}, svc: svc}
}

func (h *UserHandler) List(c *gin.Context) {
	var q req.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid params")
		return
	}
	page, err := h.svc.ListUsers(c.Request.Context(), q.Page, client.UserFilter{Query: q.Query, Language: q.Language})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewPage(page, q.Page, constraints.PageSizeDefault, resp.Identity[v1.User]))
}

// Search is the quick lookup used when picking a user for a new driver.
func (h *UserHandler) Search(c *gin.Context) {
	var q req.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid params")
		return
	}
	text := c.Query("q")
	if text == "" {
		h.badRequest(c, "q is required")
		return
	}
	page, err := h.svc.SearchUsers(c.Request.Context(), text, q.Page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewPage(page, q.Page, constraints.PageSizeDefault, resp.Identity[v1.User]))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var in v1.CreateUserInput
	if !h.bindJSON(c, &in) {
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	h.remove(c, h.svc.DeleteUser)
}
