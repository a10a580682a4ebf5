package middleware

import (
	"yoladmin/client"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceMiddleware threads X-Trace-ID through the console and into every
// backend call made with the request context.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set("TraceID", traceID)
		c.Request = c.Request.WithContext(client.WithTraceID(c.Request.Context(), traceID))
		c.Writer.Header().Set("X-Trace-ID", traceID)
		c.Next()
	}
}
