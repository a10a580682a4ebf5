package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"yoladmin/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// request describes one backend call before any token is attached.
type request struct {
	method    string
	path      string
	query     url.Values
	body      any
	multipart *MultipartBody
	// authCall marks login and refresh: no bearer token, no refresh on 401.
	authCall bool
}

type FormField struct {
	Name  string
	Value string
}

type FormFile struct {
	Field    string
	Filename string
	Data     []byte
}

// MultipartBody is a multipart/form-data payload. Parts are written in
// slice order.
type MultipartBody struct {
	Fields []FormField
	Files  []FormFile
}

// payload is the encoded body, built once and replayed on retry.
type payload struct {
	data        []byte
	contentType string
}

func (r *request) encode() (*payload, error) {
	switch {
	case r.multipart != nil:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, f := range r.multipart.Fields {
			if err := w.WriteField(f.Name, f.Value); err != nil {
				return nil, err
			}
		}
		for _, f := range r.multipart.Files {
			part, err := w.CreateFormFile(f.Field, f.Filename)
			if err != nil {
				return nil, err
			}
			if _, err := part.Write(f.Data); err != nil {
				return nil, err
			}
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return &payload{data: buf.Bytes(), contentType: w.FormDataContentType()}, nil
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", r.method, r.path, err)
		}
		return &payload{data: data, contentType: "application/json"}, nil
	default:
		return nil, nil
	}
}

func (c *Client) url(r *request) string {
	u := c.baseURL + r.path
	if q := encodeQuery(r.query); q != "" {
		u += "?" + q
	}
	return u
}

// send performs a single exchange with the given token and decodes a 2xx
// answer into out. It never refreshes.
func (c *Client) send(ctx context.Context, r *request, p *payload, token string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &TransportError{Method: r.method, Path: r.path, Err: err}
		}
	}

	var body io.Reader
	if p != nil {
		body = bytes.NewReader(p.data)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.url(r), body)
	if err != nil {
		return &TransportError{Method: r.method, Path: r.path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if id := TraceID(ctx); id != "" {
		req.Header.Set("X-Trace-ID", id)
	}
	if p != nil {
		req.Header.Set("Content-Type", p.contentType)
	}
	if !r.authCall && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.roundTrip(req)
	route := routeTemplate(r.path)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			c.observer.ObserveRequest(r.method, route, apiErr.Status, time.Since(start))
			return apiErr
		}
		c.observer.ObserveRequest(r.method, route, 0, time.Since(start))
		logger.Error("backend request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.String("request_id", req.Header.Get("X-Request-ID")),
			zap.Error(err),
		)
		return &TransportError{Method: r.method, Path: r.path, Err: err}
	}
	c.observer.ObserveRequest(r.method, route, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseErrorResponse(resp)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: r.method, Path: r.path, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

var idSegment = regexp.MustCompile(`/\d+(/|$)`)

// routeTemplate replaces numeric path segments so metric labels stay bounded.
func routeTemplate(path string) string {
	return idSegment.ReplaceAllString(path, "/:id$1")
}
