package client

import (
	"context"

	v1 "yoladmin/pkg/api/v1"
)

type UserFilter struct {
	Query    string
	Language string
}

func (f UserFilter) values(page int) *query {
	return newQuery().page(page).str("query", f.Query).str("language", f.Language)
}

func (c *Client) ListUsers(ctx context.Context, page int, f UserFilter) (*v1.Page[v1.User], error) {
	return list[v1.User](ctx, c, pathUsers, f.values(page).values())
}

// SearchUsers matches name, phone or Telegram id on the backend's search
// endpoint.
func (c *Client) SearchUsers(ctx context.Context, text string, page int) (*v1.Page[v1.User], error) {
	return list[v1.User](ctx, c, pathUserSearch, newQuery().str("query", text).page(page).values())
}

func (c *Client) GetUser(ctx context.Context, id int64) (*v1.User, error) {
	return getItem[v1.User](ctx, c, pathUsers, id)
}

func (c *Client) CreateUser(ctx context.Context, in v1.CreateUserInput) (*v1.User, error) {
	return create[v1.User](ctx, c, pathUsers, in)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.deleteItem(ctx, pathUsers, id)
}
