package api

import (
	"context"
	"net/http"

	"yoladmin/internal/dto/req"
	"yoladmin/internal/dto/resp"
	"yoladmin/internal/middleware"
	v1 "yoladmin/pkg/api/v1"
	"yoladmin/pkg/constraints"

	"github.com/gin-gonic/gin"
)

type CatalogProvider interface {
	ListCountries(ctx context.Context, page int) (*v1.Page[v1.Country], error)
	GetCountry(ctx context.Context, id int64) (*v1.Country, error)
	CreateCountry(ctx context.Context, in v1.CountryInput) (*v1.Country, error)
	UpdateCountry(ctx context.Context, id int64, in v1.CountryInput) (*v1.Country, error)
	DeleteCountry(ctx context.Context, id int64) error

	ListPointPrices(ctx context.Context, page int) (*v1.Page[v1.PointPrice], error)
	GetPointPrice(ctx context.Context, id int64) (*v1.PointPrice, error)
	CreatePointPrice(ctx context.Context, in v1.PointPriceInput) (*v1.PointPrice, error)
	UpdatePointPrice(ctx context.Context, id int64, in v1.PointPriceInput) (*v1.PointPrice, error)
	DeletePointPrice(ctx context.Context, id int64) error

	ListCards(ctx context.Context, page int) (*v1.Page[v1.Card], error)
	GetCard(ctx context.Context, id int64) (*v1.Card, error)
	CreateCard(ctx context.Context, in v1.CardInput) (*v1.Card, error)
	UpdateCard(ctx context.Context, id int64, in v1.CardInput) (*v1.Card, error)
	DeleteCard(ctx context.Context, id int64) error
}

// catalog serves one plain reference collection: list, get, create,
// patch and confirmed delete with no filters and no decoration.
type catalog[T, In any] struct {
	base
	list   func(ctx context.Context, page int) (*v1.Page[T], error)
	get    func(ctx context.Context, id int64) (*T, error)
	create func(ctx context.Context, in In) (*T, error)
	update func(ctx context.Context, id int64, in In) (*T, error)
	delete func(ctx context.Context, id int64) error
}

func (h *catalog[T, In]) List(c *gin.Context) {
	var q req.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid params")
		return
	}
	page, err := h.list(c.Request.Context(), q.Page)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewPage(page, q.Page, constraints.PageSizeDefault, resp.Identity[T]))
}

func (h *catalog[T, In]) Get(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	item, err := h.get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *catalog[T, In]) Create(c *gin.Context) {
	var in In
	if !h.bindJSON(c, &in) {
		return
	}
	item, err := h.create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *catalog[T, In]) Update(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	var in In
	if !h.bindJSON(c, &in) {
		return
	}
	item, err := h.update(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *catalog[T, In]) Delete(c *gin.Context) {
	h.remove(c, h.delete)
}

func (h *catalog[T, In]) register(g *gin.RouterGroup, path string) {
	g.GET(path, h.List)
	g.POST(path, h.Create)
	g.GET(path+"/:id", h.Get)
	g.PATCH(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
}

// CatalogHandler groups countries, point prices and payment cards.
type CatalogHandler struct {
	countries *catalog[v1.Country, v1.CountryInput]
	prices    *catalog[v1.PointPrice, v1.PointPriceInput]
	cards     *catalog[v1.Card, v1.CardInput]
}

func NewCatalogHandler(svc CatalogProvider, guard *middleware.AuthGuard) *CatalogHandler {
	b := base{guard: guard}
	return &CatalogHandler{
		countries: &catalog[v1.Country, v1.CountryInput]{
			base: b, list: svc.ListCountries, get: svc.GetCountry,
			create: svc.CreateCountry, update: svc.UpdateCountry, delete: svc.DeleteCountry,
		},
		prices: &catalog[v1.PointPrice, v1.PointPriceInput]{
			base: b, list: svc.ListPointPrices, get: svc.GetPointPrice,
			create: svc.CreatePointPrice, update: svc.UpdatePointPrice, delete: svc.DeletePointPrice,
		},
		cards: &catalog[v1.Card, v1.CardInput]{
			base: b, list: svc.ListCards, get: svc.GetCard,
			create: svc.CreateCard, update: svc.UpdateCard, delete: svc.DeleteCard,
		},
	}
}

func (h *CatalogHandler) register(g *gin.RouterGroup) {
	h.countries.register(g, "/countries")
	h.prices.register(g, "/point-prices")
	h.cards.register(g, "/cards")
}
