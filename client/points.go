package client

import (
	"context"

	v1 "yoladmin/pkg/api/v1"
)

type PointTransactionFilter struct {
	DriverID        int64
	TransactionType string
}

func (c *Client) ListPointTransactions(ctx context.Context, page int, f PointTransactionFilter) (*v1.Page[v1.PointTransaction], error) {
	q := newQuery().page(page).num("driver_id", f.DriverID).str("transaction_type", f.TransactionType)
	return list[v1.PointTransaction](ctx, c, pathPointTransactions, q.values())
}

func (c *Client) GetPointTransaction(ctx context.Context, id int64) (*v1.PointTransaction, error) {
	return getItem[v1.PointTransaction](ctx, c, pathPointTransactions, id)
}

func (c *Client) CreatePointTransaction(ctx context.Context, in v1.CreatePointTransactionInput) (*v1.PointTransaction, error) {
	return create[v1.PointTransaction](ctx, c, pathPointTransactions, in)
}

func (c *Client) UpdatePointTransaction(ctx context.Context, id int64, in v1.PointTransactionUpdate) (*v1.PointTransaction, error) {
	return patch[v1.PointTransaction](ctx, c, itemPath(pathPointTransactions, id), in)
}

func (c *Client) DeletePointTransaction(ctx context.Context, id int64) error {
	return c.deleteItem(ctx, pathPointTransactions, id)
}

type PurchaseRequestFilter struct {
	Status   string
	DriverID int64
}

func (c *Client) ListPointPurchaseRequests(ctx context.Context, page int, f PurchaseRequestFilter) (*v1.Page[v1.PointPurchaseRequest], error) {
	q := newQuery().page(page).str("status", f.Status).num("driver_id", f.DriverID)
	return list[v1.PointPurchaseRequest](ctx, c, pathPurchaseRequests, q.values())
}

func (c *Client) GetPointPurchaseRequest(ctx context.Context, id int64) (*v1.PointPurchaseRequest, error) {
	return getItem[v1.PointPurchaseRequest](ctx, c, pathPurchaseRequests, id)
}

// UpdatePointPurchaseRequest approves or rejects a purchase; the backend
// credits the points on approval.
func (c *Client) UpdatePointPurchaseRequest(ctx context.Context, id int64, in v1.PointPurchaseRequestUpdate) (*v1.PointPurchaseRequest, error) {
	return patch[v1.PointPurchaseRequest](ctx, c, itemPath(pathPurchaseRequests, id), in)
}

func (c *Client) DeletePointPurchaseRequest(ctx context.Context, id int64) error {
	return c.deleteItem(ctx, pathPurchaseRequests, id)
}
