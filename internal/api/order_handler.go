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

type OrderProvider interface {
	ListOrders(ctx context.Context, page int, f client.OrderFilter) (*v1.Page[v1.Order], error)
	GetOrder(ctx context.Context, id int64) (*v1.Order, error)
	UpdateOrder(ctx context.Context, id int64, in v1.OrderUpdate) (*v1.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

type OrderHandler struct {
	base
	svc OrderProvider
}

func NewOrderHandler(svc OrderProvider, guard *middleware.AuthGuard) *OrderHandler {
	return &OrderHandler{base: base{guard: guard}, svc: svc}
}

func (h *OrderHandler) List(c *gin.Context) {
	var q req.ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid params")
		return
	}
	page, err := h.svc.ListOrders(c.Request.Context(), q.Page, client.OrderFilter{
		Status:      q.Status,
		OrderType:   q.OrderType,
		DateFrom:    q.DateFrom,
		DateTo:      q.DateTo,
		Search:      q.Search,
		OrderNumber: q.OrderNumber,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewPage(page, q.Page, constraints.PageSizeDefault, resp.NewOrderItem))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewOrderItem(*order))
}

// Update changes status, comment or terms. Unknown statuses are refused
// before reaching the backend.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	var in v1.OrderUpdate
	if !h.bindJSON(c, &in) {
		return
	}
	if in.Status != nil && !v1.KnownOrderStatus(*in.Status) {
		h.badRequest(c, "unknown order status "+*in.Status)
		return
	}
	order, err := h.svc.UpdateOrder(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewOrderItem(*order))
}

func (h *OrderHandler) Delete(c *gin.Context) {
	h.remove(c, h.svc.DeleteOrder)
}
