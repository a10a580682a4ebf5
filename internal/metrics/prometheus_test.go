package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestPrometheusObserver(t *testing.T) {
	obs := NewPrometheusObserver()

	obs.RecordRefresh("coalesced")
	obs.ObserveRequest("GET", "/orders/:id/", 200, 15*time.Millisecond)
	obs.ObserveRequest("GET", "/orders/", 0, time.Millisecond)
	obs.ObserveHTTP("", "GET", 404, time.Millisecond)
	obs.SetSessionActive(true)

	body := scrape(t)
	assert.Contains(t, body, `yoladmin_token_refresh_total{outcome="coalesced"}`)
	assert.Contains(t, body, `yoladmin_backend_request_duration_seconds_count{method="GET",route="/orders/:id/",status="200"} 1`)
	assert.Contains(t, body, `route="/orders/",status="error"`)
	assert.Contains(t, body, `yoladmin_http_duration_seconds_count{method="GET",path="unmatched",status="404"}`)
	assert.Contains(t, body, "yoladmin_session_active 1")

	obs.SetSessionActive(false)
	assert.Contains(t, scrape(t), "yoladmin_session_active 0")
}
