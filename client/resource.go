package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	v1 "yoladmin/pkg/api/v1"
)

// Collection paths, relative to the base URL.
const (
	pathUsers             = "/users/"
	pathUserSearch        = "/users/search/"
	pathDrivers           = "/drivers/"
	pathOrders            = "/orders/"
	pathPointTransactions = "/point-transactions/"
	pathBotSettings       = "/bot-settings/"
	pathStatistics        = "/statistics/"
	pathInviteCreate      = "/invite-links/create/"
	pathInviteRevoke      = "/invite-links/revoke/"
	pathCountries         = "/countries/"
	pathPointPrices       = "/point-prices/"
	pathCards             = "/cards/"
	pathPurchaseRequests  = "/point-purchase-requests/"
)

func itemPath(collection string, id int64) string {
	return collection + strconv.FormatInt(id, 10) + "/"
}

func call[T any](ctx context.Context, c *Client, r *request) (*T, error) {
	var out T
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func list[T any](ctx context.Context, c *Client, path string, q url.Values) (*v1.Page[T], error) {
	return call[v1.Page[T]](ctx, c, &request{method: http.MethodGet, path: path, query: q})
}

func getItem[T any](ctx context.Context, c *Client, collection string, id int64) (*T, error) {
	return call[T](ctx, c, &request{method: http.MethodGet, path: itemPath(collection, id)})
}

func create[T any](ctx context.Context, c *Client, collection string, body any) (*T, error) {
	return call[T](ctx, c, &request{method: http.MethodPost, path: collection, body: body})
}

func patch[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
	return call[T](ctx, c, &request{method: http.MethodPatch, path: path, body: body})
}

func (c *Client) deleteItem(ctx context.Context, collection string, id int64) error {
	return c.do(ctx, &request{method: http.MethodDelete, path: itemPath(collection, id)}, nil)
}
