package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sony/gobreaker/v2"
)

// Sentinel classes for errors.Is. Every failure returned by the client
// matches exactly one of them.
var (
	ErrTransport      = errors.New("transport failure")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrServer         = errors.New("server error")

	// ErrSessionExpired is returned when a 401 could not be recovered by a
	// refresh. It also matches ErrUnauthorized.
	ErrSessionExpired = fmt.Errorf("%w: session expired", ErrUnauthorized)

	ErrCircuitOpen = gobreaker.ErrOpenState
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
	// Body is the raw error body, kept for form-level field errors.
	Body []byte
	Err  error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// TransportError means the request never completed.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// StatusCode extracts the HTTP status of an APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type errorBody struct {
	Detail  any `json:"detail"`
	Message any `json:"message"`
	Error   any `json:"error"`
}

const maxErrorBody = 1 << 20

// parseErrorResponse reads and closes the body of a non-2xx response.
func parseErrorResponse(resp *http.Response) *APIError {
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := ""
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		for _, v := range []any{eb.Detail, eb.Message, eb.Error} {
			if s, ok := v.(string); ok && s != "" {
				msg = s
				break
			}
		}
	}
	if msg == "" {
		msg = statusText(resp)
	}

	return &APIError{
		Status:  resp.StatusCode,
		Message: msg,
		Body:    body,
		Err:     classify(resp.StatusCode),
	}
}

// statusText is the reason phrase of the status line ("Bad Request").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	if text == "" {
		text = "API request failed"
	}
	return text
}

func classify(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return ErrInvalidRequest
	}
}
