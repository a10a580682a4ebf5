package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"yoladmin/client"
	"yoladmin/internal/dto/req"
	"yoladmin/internal/middleware"

	"github.com/gin-gonic/gin"
)

// base carries what every console handler needs to present failures.
type base struct {
	guard *middleware.AuthGuard
}

// fail maps a client error onto the console response. An unauthorized
// answer that survived the refresh interceptor ends the session view and
// sends the operator back to login.
func (b base) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		b.guard.Forget()
		b.guard.Redirect(c)
	case errors.Is(err, client.ErrTransport):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		status := client.StatusCode(err)
		if status == 0 {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		body := gin.H{"error": err.Error()}
		var apiErr *client.APIError
		if status == http.StatusBadRequest && errors.As(err, &apiErr) && json.Valid(apiErr.Body) {
			body["fields"] = json.RawMessage(apiErr.Body)
		}
		c.JSON(status, body)
	}
}

func (b base) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (b base) itemID(c *gin.Context) (int64, bool) {
	var uri req.IDUri
	if err := c.ShouldBindUri(&uri); err != nil {
		b.badRequest(c, "invalid id")
		return 0, false
	}
	return uri.ID, true
}

// confirmed answers 428 unless the caller passed confirm=true.
func (b base) confirmed(c *gin.Context) bool {
	var q req.DeleteQuery
	if err := c.ShouldBindQuery(&q); err != nil || !q.Confirm {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "add confirm=true to delete"})
		return false
	}
	return true
}

// remove runs a confirmed delete for the :id of the request.
func (b base) remove(c *gin.Context, fn func(context.Context, int64) error) {
	id, ok := b.itemID(c)
	if !ok || !b.confirmed(c) {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		b.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (b base) bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		b.badRequest(c, "JSON format error")
		return false
	}
	return true
}
