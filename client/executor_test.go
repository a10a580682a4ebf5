package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHeaders(t *testing.T) {
	var mu sync.Mutex
	var seen []http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Clone())
		mu.Unlock()
		switch r.URL.Path {
		case "/api/token/":
			_, _ = io.WriteString(w, `{"access":"a1","refresh":"r1"}`)
		default:
			_, _ = io.WriteString(w, `{"id":1,"username":"admin","is_staff":true}`)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api/")
	_, err := c.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0].Get("Authorization"))
	assert.Equal(t, "application/json", seen[0].Get("Content-Type"))
	assert.Equal(t, "Bearer a1", seen[1].Get("Authorization"))
	assert.Empty(t, seen[1].Get("Content-Type"))
	for _, h := range seen {
		assert.Equal(t, "application/json", h.Get("Accept"))
		assert.Len(t, h.Get("X-Request-ID"), 36)
	}
	assert.NotEqual(t, seen[0].Get("X-Request-ID"), seen[1].Get("X-Request-ID"))
}

func TestTraceIDForwarded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "trace-1", r.Header.Get("X-Trace-ID"))
		_, _ = io.WriteString(w, `{"count":0,"results":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api")
	_, err := c.ListCards(WithTraceID(context.Background(), "trace-1"), 0)
	assert.NoError(t, err)
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api")
	_, err := c.GetBotSettings(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Unauthorized", err.Error())
}

func TestEmptyBodyIsVoid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/cards/7/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api")
	withTokens(t, c, "a", "r")
	assert.NoError(t, c.DeleteCard(context.Background(), 7))
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url+"/api", func(o *Options) { o.Timeout = time.Second })
	withTokens(t, c, "a", "r")

	_, err := c.ListCountries(context.Background(), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "/countries/", te.Path)
	assert.Equal(t, 0, StatusCode(err))

	// a transport failure never touches the session
	assert.True(t, c.IsAuthenticated())
}

func TestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id": "not-a-number"`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api")
	_, err := c.GetCountry(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode GET /countries/1/ response")
}

func TestBodyReplayedOnRetry(t *testing.T) {
	var mu sync.Mutex
	var bodies [][]byte
	var types []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token/refresh/" {
			_, _ = io.WriteString(w, `{"access":"new"}`)
			return
		}
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, data)
		types = append(types, r.Header.Get("Content-Type"))
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer new" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":9,"direction":"taxi","is_approved":false}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api")
	withTokens(t, c, "old", "r")

	driver, err := c.CreateDriver(context.Background(), CreateDriverInput{
		UserID:             4,
		Direction:          "taxi",
		PassportPhoto:      Photo{Filename: "passport.jpg", Data: []byte("p")},
		DriverLicensePhoto: Photo{Data: []byte("l")},
		STSPhoto:           Photo{Data: []byte("s")},
		CarPhoto:           Photo{Data: []byte("c")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), driver.ID)

	require.Len(t, bodies, 2)
	assert.True(t, bytes.Equal(bodies[0], bodies[1]))
	assert.Equal(t, types[0], types[1])
	assert.Contains(t, types[0], "multipart/form-data; boundary=")
	assert.Contains(t, string(bodies[0]), `filename="passport.jpg"`)
	assert.Contains(t, string(bodies[0]), `filename="car_photo.jpg"`)
}

func TestCreateDriverRequiresPhotos(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api")
	_, err := c.CreateDriver(context.Background(), CreateDriverInput{UserID: 1, Direction: "taxi"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Equal(t, "passport_photo is required", err.Error())
	assert.Zero(t, hits.Load())
}

func TestCircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"detail":"upstream down"}`)
	}))
	defer srv.Close()

	settings := DefaultBreakerSettings("backend")
	settings.MinRequests = 2
	c := newTestClient(t, srv.URL+"/api", func(o *Options) { o.Breaker = &settings })
	withTokens(t, c, "a", "r")

	for range 2 {
		_, err := c.GetStatistics(context.Background())
		assert.ErrorIs(t, err, ErrServer)
		assert.Equal(t, "upstream down", err.Error())
	}

	_, err := c.GetStatistics(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), hits.Load())
}

func TestBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	settings := DefaultBreakerSettings("backend")
	settings.MinRequests = 1
	c := newTestClient(t, srv.URL+"/api", func(o *Options) { o.Breaker = &settings })

	for range 3 {
		_, err := c.GetUser(context.Background(), 1)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestRequestPacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"count":0,"results":[]}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/api", func(o *Options) { o.RequestsPerSecond = 1 })

	_, err := c.ListCards(context.Background(), 0)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.ListCards(ctx, 0)
	assert.ErrorIs(t, err, ErrTransport)
}
