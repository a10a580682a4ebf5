package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yoladmin/client"
	"yoladmin/internal/devapi"
	"yoladmin/internal/metrics"
	"yoladmin/internal/middleware"
	"yoladmin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
	gin.SetMode(gin.TestMode)
}

type console struct {
	t       *testing.T
	router  *gin.Engine
	backend *devapi.Server
	srv     *httptest.Server
	client  *client.Client
	cookies map[string]*http.Cookie
}

func newConsole(t *testing.T) *console {
	t.Helper()
	backend := devapi.New(devapi.DefaultOptions())
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	cli, err := client.New(context.Background(), client.Options{BaseURL: srv.URL + "/api"})
	require.NoError(t, err)

	r := RegisterRoutes(RouterConfig{
		Client:      cli,
		Preferences: client.NewPreferences(client.NewMemoryStorage()),
		Observer:    metrics.NewPrometheusObserver(),
		RateLimiter: middleware.NewRateLimiter(nil, 1000),
	})
	return &console{t: t, router: r, backend: backend, srv: srv, client: cli, cookies: map[string]*http.Cookie{}}
}

func (c *console) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req)
}

// send serves req like a browser would: with the cookies the console set
// earlier, keeping whatever it sets now.
func (c *console) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

// anonymous serves a request from a peer that never logged in.
func (c *console) anonymous(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func (c *console) login() {
	c.t.Helper()
	w := c.do(http.MethodPost, "/login", gin.H{"username": "admin", "password": "admin123"})
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestGuardRedirectsToLogin(t *testing.T) {
	c := newConsole(t)

	w := c.do(http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))

	w = c.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = c.do(http.MethodGet, LoginPath, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/metrics", nil).Code)
}

func TestLogin(t *testing.T) {
	c := newConsole(t)

	w := c.do(http.MethodPost, "/login", gin.H{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, c.client.IsAuthenticated())

	w = c.do(http.MethodPost, "/login", gin.H{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c.login()
	me := decode[struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
		ExpiresAt   *string `json:"expires_at"`
		SidebarOpen bool    `json:"sidebar_open"`
	}](t, c.do(http.MethodGet, "/me", nil))
	assert.Equal(t, "admin", me.User.Username)
	assert.NotNil(t, me.ExpiresAt)
	assert.True(t, me.SidebarOpen)

	w = c.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, c.client.IsAuthenticated())
	assert.Equal(t, http.StatusFound, c.do(http.MethodGet, "/me", nil).Code)
}

func TestAnonymousPeerAfterLoginIsRedirected(t *testing.T) {
	c := newConsole(t)
	c.login()
	require.Contains(t, c.cookies, middleware.SessionCookie)
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/users", nil).Code)

	w := c.anonymous(http.MethodGet, "/users")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))

	w = c.anonymous(http.MethodDelete, "/users/1?confirm=true")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/users/1", nil).Code)

	w = c.anonymous(http.MethodGet, LoginPath)
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())
	w = c.do(http.MethodGet, LoginPath, nil)
	assert.JSONEq(t, `{"authenticated":true}`, w.Body.String())
}

func TestSidebarPreference(t *testing.T) {
	c := newConsole(t)
	c.login()

	w := c.do(http.MethodPut, "/preferences/sidebar", gin.H{"open": false})
	require.Equal(t, http.StatusOK, w.Code)

	me := decode[map[string]any](t, c.do(http.MethodGet, "/me", nil))
	assert.Equal(t, false, me["sidebar_open"])

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPut, "/preferences/sidebar", gin.H{}).Code)
}

func TestOrdersWithLabels(t *testing.T) {
	c := newConsole(t)
	c.login()

	page := decode[struct {
		Count      int              `json:"count"`
		Page       int              `json:"page"`
		TotalPages int              `json:"total_pages"`
		Results    []map[string]any `json:"results"`
	}](t, c.do(http.MethodGet, "/orders?status=pending", nil))
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Kutilmoqda", page.Results[0]["status_label"])
	assert.Equal(t, "Taksi", page.Results[0]["order_type_label"])

	w := c.do(http.MethodPatch, "/orders/1", gin.H{"status": "accepted"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Qabul qilingan", decode[map[string]any](t, w)["status_label"])

	w = c.do(http.MethodPatch, "/orders/1", gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/orders?date_from=yesterday", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/orders/999", nil).Code)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	c := newConsole(t)
	c.login()

	before := c.backend.Requests()
	w := c.do(http.MethodDelete, "/orders/1", nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	w = c.do(http.MethodDelete, "/orders/1?confirm=false", nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Equal(t, before, c.backend.Requests())

	w = c.do(http.MethodDelete, "/orders/1?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/orders/1", nil).Code)
}

func TestSettingsTab(t *testing.T) {
	c := newConsole(t)
	c.login()

	tab := decode[struct {
		BotSettings struct {
			DriverRequestGroupID string `json:"driver_request_group_id"`
		} `json:"bot_settings"`
		Users struct {
			Count int `json:"count"`
		} `json:"users"`
	}](t, c.do(http.MethodGet, "/settings", nil))
	assert.Equal(t, "-100123", tab.BotSettings.DriverRequestGroupID)
	assert.Equal(t, 4, tab.Users.Count)

	w := c.do(http.MethodPatch, "/bot-settings", gin.H{"admin_ids": []int{1, 2}})
	require.Equal(t, http.StatusOK, w.Code)
	settings := decode[map[string]any](t, w)
	assert.Len(t, settings["admins"], 2)

	w = c.do(http.MethodPatch, "/bot-settings", gin.H{"deport_price": 20000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(20000), decode[map[string]any](t, w)["deport_price"])

	w = c.do(http.MethodPatch, "/bot-settings", gin.H{"deport_price": nil})
	require.Equal(t, http.StatusOK, w.Code)
	settings = decode[map[string]any](t, w)
	assert.Contains(t, settings, "deport_price")
	assert.Nil(t, settings["deport_price"])
	assert.Len(t, settings["admins"], 2)
}

func TestValidationErrorsCarryFields(t *testing.T) {
	c := newConsole(t)
	c.login()

	w := c.do(http.MethodPost, "/countries", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]json.RawMessage](t, w)
	assert.Contains(t, string(body["fields"]), "name_uz")

	w = c.do(http.MethodPost, "/countries", gin.H{"code": "TJ", "name_uz": "Tojikiston", "name_ru": "Таджикистан"})
	assert.Equal(t, http.StatusCreated, w.Code)
	list := decode[map[string]any](t, c.do(http.MethodGet, "/countries", nil))
	assert.Equal(t, float64(3), list["count"])
}

func multipartDriver(t *testing.T, withPhotos bool) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("user_id", "4"))
	require.NoError(t, mw.WriteField("direction", "taxi"))
	if withPhotos {
		for _, field := range []string{"passport_photo", "driver_license_photo", "sts_photo", "car_photo"} {
			part, err := mw.CreateFormFile(field, field+".png")
			require.NoError(t, err)
			_, _ = part.Write([]byte("img"))
		}
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestCreateDriver(t *testing.T) {
	c := newConsole(t)
	c.login()

	body, ct := multipartDriver(t, false)
	req := httptest.NewRequest(http.MethodPost, "/drivers", body)
	req.Header.Set("Content-Type", ct)
	w := c.send(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "passport_photo is required")

	body, ct = multipartDriver(t, true)
	req = httptest.NewRequest(http.MethodPost, "/drivers", body)
	req.Header.Set("Content-Type", ct)
	w = c.send(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	driver := decode[map[string]any](t, w)
	assert.Equal(t, "Kutilmoqda", driver["approval_label"])
	assert.Equal(t, "Taksi / Pasilka", driver["direction_label"])
}

func TestPurchaseQueue(t *testing.T) {
	c := newConsole(t)
	c.login()

	w := c.do(http.MethodPost, "/purchase-requests/1/approve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Tasdiqlangan", decode[map[string]any](t, w)["status_label"])

	page := decode[map[string]any](t, c.do(http.MethodGet, "/purchase-requests?status=pending", nil))
	assert.Equal(t, float64(0), page["count"])

	w = c.do(http.MethodPost, "/points", gin.H{"driver_id": 1, "amount": 5, "transaction_type": "bonus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = c.do(http.MethodPost, "/points", gin.H{"driver_id": 1, "amount": 5, "transaction_type": "add"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Qo'shilgan", decode[map[string]any](t, w)["type_label"])
}

func TestSessionDeathRedirects(t *testing.T) {
	c := newConsole(t)
	c.login()
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/orders", nil).Code)

	c.backend.Tokens().InvalidateAccessTokens()
	c.backend.Tokens().RevokeRefreshTokens()

	w := c.do(http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.False(t, c.client.IsAuthenticated())

	w = c.do(http.MethodPatch, "/orders/1", gin.H{"status": "accepted"})
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestBackendDownIsBadGateway(t *testing.T) {
	c := newConsole(t)
	c.login()
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/statistics", nil).Code)

	c.srv.Close()
	w := c.do(http.MethodGet, "/statistics", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "/statistics/"))
}
