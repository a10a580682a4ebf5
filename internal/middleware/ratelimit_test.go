package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yoladmin/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func init() {
	logger.InitLogger("test")
}

func limitedRouter(l *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(l.Middleware())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hit(r http.Handler, method string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, "/test", nil))
	return w
}

func TestRateLimitRedisFailureFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:0",
		DialTimeout: 10 * time.Millisecond,
		ReadTimeout: 10 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := limitedRouter(NewRateLimiter(rdb, 10))

	w := hit(r, http.MethodPost)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitRedisBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	r := limitedRouter(NewRateLimiter(rdb, 2))

	assert.Equal(t, http.StatusOK, hit(r, http.MethodPost).Code)
	assert.Equal(t, http.StatusOK, hit(r, http.MethodPost).Code)
	w := hit(r, http.MethodPost)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.True(t, mr.Exists("yoladmin:ratelimit:192.0.2.1:tokens"))

	// reads are never limited
	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet).Code)
}

func TestRateLimitLocalWithoutRedis(t *testing.T) {
	r := limitedRouter(NewRateLimiter(nil, 1))

	assert.Equal(t, http.StatusOK, hit(r, http.MethodPost).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, http.MethodPost).Code)
	assert.Equal(t, http.StatusOK, hit(r, http.MethodGet).Code)
}
