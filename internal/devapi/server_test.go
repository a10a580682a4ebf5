package devapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v1 "yoladmin/pkg/api/v1"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, s *Server) v1.TokenPair {
	t.Helper()
	w := doJSON(t, s.Handler(), http.MethodPost, "/api/token/", "", v1.Credentials{Username: "admin", Password: "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	var pair v1.TokenPair
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	return pair
}

func TestLogin(t *testing.T) {
	s := New(DefaultOptions())

	pair := login(t, s)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	w := doJSON(t, s.Handler(), http.MethodPost, "/api/token/", "", v1.Credentials{Username: "admin", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No active account")
}

func TestAuthenticate(t *testing.T) {
	s := New(DefaultOptions())
	pair := login(t, s)

	w := doJSON(t, s.Handler(), http.MethodGet, "/api/auth/user/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s.Handler(), http.MethodGet, "/api/auth/user/", pair.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"admin"`)

	// refresh tokens are not accepted as access tokens
	w = doJSON(t, s.Handler(), http.MethodGet, "/api/auth/user/", pair.Refresh, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.Tokens().InvalidateAccessTokens()
	w = doJSON(t, s.Handler(), http.MethodGet, "/api/auth/user/", pair.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh(t *testing.T) {
	s := New(DefaultOptions())
	pair := login(t, s)
	s.Tokens().InvalidateAccessTokens()

	w := doJSON(t, s.Handler(), http.MethodPost, "/api/token/refresh/", "", v1.RefreshRequest{Refresh: pair.Refresh})
	require.Equal(t, http.StatusOK, w.Code)
	var tok v1.AccessToken
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	assert.NotEqual(t, pair.Access, tok.Access)
	assert.Empty(t, tok.Refresh)

	w = doJSON(t, s.Handler(), http.MethodGet, "/api/auth/user/", tok.Access, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	s.Tokens().RevokeRefreshTokens()
	w = doJSON(t, s.Handler(), http.MethodPost, "/api/token/refresh/", "", v1.RefreshRequest{Refresh: pair.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int64(2), s.RefreshCalls())
}

func TestExpiredAccessToken(t *testing.T) {
	opts := DefaultOptions()
	opts.AccessTTL = time.Nanosecond
	s := New(opts)
	pair := login(t, s)
	time.Sleep(time.Millisecond)

	w := doJSON(t, s.Handler(), http.MethodGet, "/api/auth/user/", pair.Access, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListFiltersAndPages(t *testing.T) {
	s := New(DefaultOptions())
	token := login(t, s).Access

	tests := []struct {
		name  string
		path  string
		count int
	}{
		{"all drivers", "/api/drivers/", 3},
		{"approved drivers", "/api/drivers/?is_approved=true", 2},
		{"cargo drivers", "/api/drivers/?direction=cargo", 1},
		{"orders by status", "/api/orders/?status=pending", 1},
		{"orders by date", "/api/orders/?date_from=2025-03-04&date_to=2025-03-31", 2},
		{"orders search", "/api/orders/?search=buxoro", 1},
		{"transactions by driver", "/api/point-transactions/?driver_id=1", 2},
		{"user search", "/api/users/search/?query=ivanov", 1},
		{"users by language", "/api/users/?language=ru", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, s.Handler(), http.MethodGet, tt.path, token, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var page v1.Page[json.RawMessage]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
			assert.Equal(t, tt.count, page.Count)
			assert.Len(t, page.Results, tt.count)
		})
	}

	w := doJSON(t, s.Handler(), http.MethodGet, "/api/drivers/?page=9", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPagination(t *testing.T) {
	s := New(Options{Empty: true})
	token := login(t, s).Access
	for i := 0; i < 25; i++ {
		s.countries.insert(record{"code": "C", "name_uz": "x", "name_ru": "x"})
	}

	w := doJSON(t, s.Handler(), http.MethodGet, "/api/countries/", token, nil)
	var first v1.Page[v1.Country]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, 25, first.Count)
	assert.Len(t, first.Results, 20)
	require.NotNil(t, first.Next)
	assert.Contains(t, *first.Next, "page=2")
	assert.Nil(t, first.Previous)

	w = doJSON(t, s.Handler(), http.MethodGet, "/api/countries/?page=2", token, nil)
	var second v1.Page[v1.Country]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Len(t, second.Results, 5)
	assert.Nil(t, second.Next)
	assert.NotNil(t, second.Previous)
}

func TestCrudLifecycle(t *testing.T) {
	s := New(DefaultOptions())
	token := login(t, s).Access

	w := doJSON(t, s.Handler(), http.MethodPost, "/api/cards/", token, map[string]any{"card_number": "8600"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "card_holder_name")

	w = doJSON(t, s.Handler(), http.MethodPost, "/api/cards/", token, map[string]any{
		"card_number": "8600 0000", "card_holder_name": "Test", "bank_name": "Hamkorbank", "is_active": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var card v1.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))

	w = doJSON(t, s.Handler(), http.MethodPatch, "/api/cards/2/", token, map[string]any{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_active":false`)
	assert.Contains(t, w.Body.String(), `"bank_name":"Hamkorbank"`)

	w = doJSON(t, s.Handler(), http.MethodDelete, "/api/cards/2/", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, s.Handler(), http.MethodGet, "/api/cards/2/", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderStatusLabel(t *testing.T) {
	s := New(DefaultOptions())
	token := login(t, s).Access

	w := doJSON(t, s.Handler(), http.MethodPatch, "/api/orders/1/", token, map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	var order v1.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, "completed", order.Status)
	assert.Equal(t, "Yakunlangan", order.StatusDisplay)
}

func TestBotSettingsAdmins(t *testing.T) {
	s := New(DefaultOptions())
	token := login(t, s).Access

	w := doJSON(t, s.Handler(), http.MethodPatch, "/api/bot-settings/", token, map[string]any{
		"admin_ids": []int{1, 3, 99}, "taxi_group_id": "-100777",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var settings v1.BotSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "-100123", settings.DriverRequestGroupID)
	assert.Equal(t, "-100777", settings.TaxiGroupID)
	require.Len(t, settings.Admins, 2)
	assert.Equal(t, int64(3), settings.Admins[1].ID)
}

func TestStatistics(t *testing.T) {
	s := New(DefaultOptions())
	token := login(t, s).Access

	w := doJSON(t, s.Handler(), http.MethodGet, "/api/statistics/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 3, stats["total_orders"])
	assert.EqualValues(t, 2, stats["approved_drivers"])
}
