package client

import (
	"context"

	v1 "yoladmin/pkg/api/v1"
)

func (c *Client) ListCountries(ctx context.Context, page int) (*v1.Page[v1.Country], error) {
	return list[v1.Country](ctx, c, pathCountries, newQuery().page(page).values())
}

func (c *Client) GetCountry(ctx context.Context, id int64) (*v1.Country, error) {
	return getItem[v1.Country](ctx, c, pathCountries, id)
}

func (c *Client) CreateCountry(ctx context.Context, in v1.CountryInput) (*v1.Country, error) {
	return create[v1.Country](ctx, c, pathCountries, in)
}

func (c *Client) UpdateCountry(ctx context.Context, id int64, in v1.CountryInput) (*v1.Country, error) {
	return patch[v1.Country](ctx, c, itemPath(pathCountries, id), in)
}

func (c *Client) DeleteCountry(ctx context.Context, id int64) error {
	return c.deleteItem(ctx, pathCountries, id)
}

func (c *Client) ListPointPrices(ctx context.Context, page int) (*v1.Page[v1.PointPrice], error) {
	return list[v1.PointPrice](ctx, c, pathPointPrices, newQuery().page(page).values())
}

func (c *Client) GetPointPrice(ctx context.Context, id int64) (*v1.PointPrice, error) {
	return getItem[v1.PointPrice](ctx, c, pathPointPrices, id)
}

func (c *Client) CreatePointPrice(ctx context.Context, in v1.PointPriceInput) (*v1.PointPrice, error) {
	return create[v1.PointPrice](ctx, c, pathPointPrices, in)
}

func (c *Client) UpdatePointPrice(ctx context.Context, id int64, in v1.PointPriceInput) (*v1.PointPrice, error) {
	return patch[v1.PointPrice](ctx, c, itemPath(pathPointPrices, id), in)
}

func (c *Client) DeletePointPrice(ctx context.Context, id int64) error {
	return c.deleteItem(ctx, pathPointPrices, id)
}

func (c *Client) ListCards(ctx context.Context, page int) (*v1.Page[v1.Card], error) {
	return list[v1.Card](ctx, c, pathCards, newQuery().page(page).values())
}

func (c *Client) GetCard(ctx context.Context, id int64) (*v1.Card, error) {
	return getItem[v1.Card](ctx, c, pathCards, id)
}

func (c *Client) CreateCard(ctx context.Context, in v1.CardInput) (*v1.Card, error) {
	return create[v1.Card](ctx, c, pathCards, in)
}

func (c *Client) UpdateCard(ctx context.Context, id int64, in v1.CardInput) (*v1.Card, error) {
	return patch[v1.Card](ctx, c, itemPath(pathCards, id), in)
}

func (c *Client) DeleteCard(ctx context.Context, id int64) error {
	return c.deleteItem(ctx, pathCards, id)
}
