package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"yoladmin/client"
	"yoladmin/internal/dto/req"
	"yoladmin/internal/dto/resp"
	"yoladmin/internal/middleware"
	v1 "yoladmin/pkg/api/v1"
	"yoladmin/pkg/constraints"

	"github.com/gin-gonic/gin"
)

type DriverProvider interface {
	ListDrivers(ctx context.Context, page int, f client.DriverFilter) (*v1.Page[v1.Driver], error)
	GetDriver(ctx context.Context, id int64) (*v1.Driver, error)
	CreateDriver(ctx context.Context, in client.CreateDriverInput) (*v1.Driver, error)
	UpdateDriver(ctx context.Context, id int64, in v1.DriverUpdate) (*v1.Driver, error)
	DeleteDriver(ctx context.Context, id int64) error
}

type DriverHandler struct {
	base
	svc DriverProvider
}

func NewDriverHandler(svc DriverProvider, guard *middleware.AuthGuard) *DriverHandler {
	return &DriverHandler{base: base{guard: guard}, svc: svc}
}

func (h *DriverHandler) List(c *gin.Context) {
	var q req.ListDriversQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.badRequest(c, "invalid params")
		return
	}
	page, err := h.svc.ListDrivers(c.Request.Context(), q.Page, client.DriverFilter{
		IsApproved: q.IsApproved,
		Direction:  q.Direction,
		Region:     q.Region,
		Search:     q.Search,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewPage(page, q.Page, constraints.PageSizeDrivers, resp.NewDriverItem))
}

func (h *DriverHandler) Get(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	driver, err := h.svc.GetDriver(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewDriverItem(*driver))
}

// Create registers a driver from a multipart form carrying user_id,
// direction and the four document photos.
func (h *DriverHandler) Create(c *gin.Context) {
	var form req.CreateDriverForm
	if err := c.ShouldBind(&form); err != nil {
		h.badRequest(c, "user_id and direction are required")
		return
	}
	in := client.CreateDriverInput{UserID: form.UserID, Direction: form.Direction}
	photos := []struct {
		field string
		dst   *client.Photo
	}{
		{"passport_photo", &in.PassportPhoto},
		{"driver_license_photo", &in.DriverLicensePhoto},
		{"sts_photo", &in.STSPhoto},
		{"car_photo", &in.CarPhoto},
	}
	for _, p := range photos {
		photo, err := formPhoto(c, p.field)
		if err != nil {
			h.badRequest(c, "read "+p.field+": "+err.Error())
			return
		}
		*p.dst = photo
	}

	driver, err := h.svc.CreateDriver(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp.NewDriverItem(*driver))
}

// formPhoto reads one uploaded file. A missing part yields an empty photo
// and is reported by the client's own validation.
func formPhoto(c *gin.Context, field string) (client.Photo, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return client.Photo{}, nil
	}
	if err != nil {
		return client.Photo{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return client.Photo{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return client.Photo{}, err
	}
	return client.Photo{Filename: fh.Filename, Data: data}, nil
}

// Update covers approval, direction and point balance edits.
func (h *DriverHandler) Update(c *gin.Context) {
	id, ok := h.itemID(c)
	if !ok {
		return
	}
	var in v1.DriverUpdate
	if !h.bindJSON(c, &in) {
		return
	}
	driver, err := h.svc.UpdateDriver(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp.NewDriverItem(*driver))
}

func (h *DriverHandler) Delete(c *gin.Context) {
	h.remove(c, h.svc.DeleteDriver)
}
