package client

import (
	"context"
	"net/http"
	"strconv"

	v1 "yoladmin/pkg/api/v1"
)

type DriverFilter struct {
	IsApproved *bool
	Direction  string
	Region     string
	Search     string
}

func (f DriverFilter) values(page int) *query {
	return newQuery().page(page).
		boolPtr("is_approved", f.IsApproved).
		str("direction", f.Direction).
		str("region", f.Region).
		str("search", f.Search)
}

// Photo is one uploaded document image.
type Photo struct {
	Filename string
	Data     []byte
}

// CreateDriverInput registers an existing bot user as a driver. All four
// photos are required by the backend.
type CreateDriverInput struct {
	UserID             int64
	Direction          string
	PassportPhoto      Photo
	DriverLicensePhoto Photo
	STSPhoto           Photo
	CarPhoto           Photo
}

func (in CreateDriverInput) multipart() (*MultipartBody, error) {
	photos := []struct {
		field string
		photo Photo
	}{
		{"passport_photo", in.PassportPhoto},
		{"driver_license_photo", in.DriverLicensePhoto},
		{"sts_photo", in.STSPhoto},
		{"car_photo", in.CarPhoto},
	}
	body := &MultipartBody{
		Fields: []FormField{
			{Name: "user_id", Value: strconv.FormatInt(in.UserID, 10)},
			{Name: "direction", Value: in.Direction},
		},
	}
	for _, p := range photos {
		if len(p.photo.Data) == 0 {
			return nil, &APIError{Status: http.StatusBadRequest, Message: p.field + " is required", Err: ErrInvalidRequest}
		}
		name := p.photo.Filename
		if name == "" {
			name = p.field + ".jpg"
		}
		body.Files = append(body.Files, FormFile{Field: p.field, Filename: name, Data: p.photo.Data})
	}
	return body, nil
}

func (c *Client) ListDrivers(ctx context.Context, page int, f DriverFilter) (*v1.Page[v1.Driver], error) {
	return list[v1.Driver](ctx, c, pathDrivers, f.values(page).values())
}

func (c *Client) GetDriver(ctx context.Context, id int64) (*v1.Driver, error) {
	return getItem[v1.Driver](ctx, c, pathDrivers, id)
}

func (c *Client) UpdateDriver(ctx context.Context, id int64, in v1.DriverUpdate) (*v1.Driver, error) {
	return patch[v1.Driver](ctx, c, itemPath(pathDrivers, id), in)
}

func (c *Client) DeleteDriver(ctx context.Context, id int64) error {
	return c.deleteItem(ctx, pathDrivers, id)
}

// CreateDriver uploads the registration form as multipart/form-data.
func (c *Client) CreateDriver(ctx context.Context, in CreateDriverInput) (*v1.Driver, error) {
	body, err := in.multipart()
	if err != nil {
		return nil, err
	}
	return call[v1.Driver](ctx, c, &request{method: http.MethodPost, path: pathDrivers, multipart: body})
}
