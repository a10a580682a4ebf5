package middleware

import (
	"time"

	"yoladmin/internal/metrics"

	"github.com/gin-gonic/gin"
)

func HttpMiddleware(obs metrics.ConsoleObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		obs.ObserveHTTP(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
