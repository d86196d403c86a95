package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
	"github.com/oksasatya/go-ddd-identity/pkg/response"
	"github.com/oksasatya/go-ddd-identity/pkg/validation"
)

// bindJSON decodes the body into dst and renders a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Fail(c, validation.FromBindError(err))
		return false
	}
	return true
}

// uuidParam returns the named path parameter if it is a UUID and renders a 400 otherwise.
func uuidParam(c *gin.Context, name string) (string, bool) {
	v := c.Param(name)
	if _, err := uuid.Parse(v); err != nil {
		response.Fail(c, apperror.Validation([]apperror.FieldError{{Field: name, Message: "must be a valid UUID"}}))
		return "", false
	}
	return v, true
}
