package client

import (
	"context"

	v1 "yoladmin/pkg/api/v1"
)

// OrderFilter narrows the orders list. Dates are YYYY-MM-DD.
type OrderFilter struct {
	Status      string
	OrderType   string
	DateFrom    string
	DateTo      string
	Search      string
	OrderNumber string
}

func (f OrderFilter) values(page int) *query {
	return newQuery().page(page).
		str("status", f.Status).
		str("order_type", f.OrderType).
		str("date_from", f.DateFrom).
		str("date_to", f.DateTo).
		str("search", f.Search).
		str("order_number", f.OrderNumber)
}

func (c *Client) ListOrders(ctx context.Context, page int, f OrderFilter) (*v1.Page[v1.Order], error) {
	return list[v1.Order](ctx, c, pathOrders, f.values(page).values())
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*v1.Order, error) {
	return getItem[v1.Order](ctx, c, pathOrders, id)
}

func (c *Client) UpdateOrder(ctx context.Context, id int64, in v1.OrderUpdate) (*v1.Order, error) {
	return patch[v1.Order](ctx, c, itemPath(pathOrders, id), in)
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.deleteItem(ctx, pathOrders, id)
}
