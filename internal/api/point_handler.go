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

type PointProvider interface {
	ListPointTransactions(ctx context.Context, page int, f client.PointTransactionFilter) (*v1.Page[v1.PointTransaction], error)
	GetPointTransaction(ctx context.Context, id int64) (*v1.PointTransaction, error)
	CreatePointTransaction(ctx context.Context, in v1.CreatePointTransactionInput) (*v1.PointTransaction, error)
	UpdatePointTransaction(ctx context.Context, id int64, in v1.PointTransactionUpdate) (*v1.PointTransaction, error)
	DeletePointTransaction(ctx context.Context, id int64) error

	ListPointPurchaseRequests(ctx context.Context, page int, f client.PurchaseRequestFilter) (*v1.Page[v1.PointPurchaseRequest], error)
	GetPointPurchaseRequest(ctx context.Context, id int64) (*v1.PointPurchaseRequest, error)
	UpdatePointPurchaseRequest(ctx context.Context, id int64, in v1.PointPurchaseRequestUpdate) (*v1.PointPurchaseRequest, error)
	DeletePointPurchaseRequest(ctx context.Context, id int64) error
}

// PointHandler serves the points ledger and the purchase requests queue.
type PointHandler struct {
	base
	svc PointProvider
}

func NewPointHandler(svc PointProvider, guard *middleware.AuthGuard) *PointHandler {
	return &PointHandler{base: base{guard: guard}, svc: svc}
}

func (h *PointHandler) ListTransactions(c *gin.Context) {
	var q req.ListTransactionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid params")
		return
	}
	page, err := h.svc.ListPointTransactions(c.Request.Context(), q.Page, client.PointTransactionFilter{
		DriverID:        q.DriverID,
		TransactionType: q.TransactionType,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewPage(page, q.Page, constraints.PageSizeDefault, resp.NewTransactionItem))
}

func (h *PointHandler) GetTransaction(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	tx, err := h.svc.GetPointTransaction(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewTransactionItem(*tx))
}

func (h *PointHandler) CreateTransaction(c *gin.Context) {
	var in v1.CreatePointTransactionInput
	if !h.bindJSON(c, &in) {
		return
	}
	switch in.TransactionType {
	case constraints.TransactionAdd, constraints.TransactionSubtract:
	default:
		h.badRequest(c, "transaction_type must be add or subtract")
		return
	}
	tx, err := h.svc.CreatePointTransaction(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.NewTransactionItem(*tx))
}

func (h *PointHandler) UpdateTransaction(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	var in v1.PointTransactionUpdate
	if !h.bindJSON(c, &in) {
		return
	}
	tx, err := h.svc.UpdatePointTransaction(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewTransactionItem(*tx))
}

func (h *PointHandler) DeleteTransaction(c *gin.Context) {
	h.remove(c, h.svc.DeletePointTransaction)
}

func (h *PointHandler) ListPurchases(c *gin.Context) {
	var q req.ListPurchasesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid params")
		return
	}
	page, err := h.svc.ListPointPurchaseRequests(c.Request.Context(), q.Page, client.PurchaseRequestFilter{
		Status:   q.Status,
		DriverID: q.DriverID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewPage(page, q.Page, constraints.PageSizeDefault, resp.NewPurchaseItem))
}

func (h *PointHandler) GetPurchase(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	p, err := h.svc.GetPointPurchaseRequest(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewPurchaseItem(*p))
}

func (h *PointHandler) UpdatePurchase(c *gin.Context) {
	var in v1.PointPurchaseRequestUpdate
	if !h.bindJSON(c, &in) {
		return
	}
	h.updatePurchase(c, in)
}

// ApprovePurchase and RejectPurchase are the queue's one-click actions.
func (h *PointHandler) ApprovePurchase(c *gin.Context) {
	status := constraints.PurchaseApproved
	h.updatePurchase(c, v1.PointPurchaseRequestUpdate{Status: &status})
}

func (h *PointHandler) RejectPurchase(c *gin.Context) {
	status := constraints.PurchaseRejected
	in := v1.PointPurchaseRequestUpdate{Status: &status}
	if comment := c.Query("comment"); comment != "" {
		in.AdminComment = &comment
	}
	h.updatePurchase(c, in)
}

func (h *PointHandler) updatePurchase(c *gin.Context, in v1.PointPurchaseRequestUpdate) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	p, err := h.svc.UpdatePointPurchaseRequest(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewPurchaseItem(*p))
}

func (h *PointHandler) DeletePurchase(c *gin.Context) {
	h.remove(c, h.svc.DeletePointPurchaseRequest)
}
