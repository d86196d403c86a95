package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-identity/pkg/apperror"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// ErrorBody is the "error" member of a failed response.
type ErrorBody struct {
	Kind   string                `json:"kind"`
	Fields []apperror.FieldError `json:"fields,omitempty"`
}

func build[T any](ctx *gin.Context, status int, ok bool, data T, message string, meta, err interface{}) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   ok,
		Message:   message,
		Data:      data,
		Meta:      meta,
		Error:     err,
	}
}

// Success writes a successful envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := build(ctx, status, true, data, message, meta, nil)
	ctx.JSON(status, resp)
	return resp
}

// Error writes a failed envelope and returns it.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	var zero T
	resp := build(ctx, status, false, zero, message, nil, err)
	ctx.JSON(status, resp)
	return resp
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k apperror.Kind) int {
	switch k {
	case apperror.KindBadRequest, apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail renders err. Typed errors keep their message; anything else becomes a
// generic 500 so store and driver text never reaches the client.
func Fail(ctx *gin.Context, err error) {
	status, message, body := describe(err)
	Error[any](ctx, status, message, body)
}

// Abort is Fail for middleware: it also stops the handler chain.
func Abort(ctx *gin.Context, err error) {
	status, message, body := describe(err)
	var zero any
	ctx.AbortWithStatusJSON(status, build(ctx, status, false, zero, message, nil, body))
}

func describe(err error) (int, string, ErrorBody) {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError, "internal server error", ErrorBody{Kind: apperror.KindInternal.String()}
	}
	msg := ae.Message
	if msg == "" {
		msg = http.StatusText(StatusOf(ae.Kind))
	}
	return StatusOf(ae.Kind), msg, ErrorBody{Kind: ae.Kind.String(), Fields: ae.Fields}
}
