package handler

import (
	"context"
	"errors"

	"canebill/internal/service"
	"canebill/pkg/apperror"
	"canebill/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy to its fixed status code. Aggregated
// validation failures keep their full violation list in the payload.
func respondError(c *gin.Context, err error) {
	code := apperror.StatusCode(err)

	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		c.JSON(code, response.ValidationFailed(code, ve.Error(), ve.Violations))
		return
	}
	c.JSON(code, response.Error(code, err.Error()))
}

// requestContext threads the authenticated admin id (when present) into the
// context for audit attribution
func requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if id := c.GetString("adminID"); id != "" {
		ctx = service.WithAdminID(ctx, id)
	}
	return ctx
}
