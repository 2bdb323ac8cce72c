package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the body of every failed request. Only Message reaches the client.
type Err struct {
	HTTPStatusCode int    `json:"-"`
	Message        string `json:"error"`
	Cause          error  `json:"-"`
}

func RenderErr(ctx *gin.Context, e *Err) {
	fields := []zap.Field{
		zap.Int("status", e.HTTPStatusCode),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
		zap.Error(e.Cause),
	}
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error(e.Message, fields...)
	} else {
		zap.L().Info(e.Message, fields...)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        err.Error(),
		Cause:          err,
	}
}

func ErrNotFound(resource, key string, value any) *Err {
	err := fmt.Errorf("%s with %s %v not found", resource, key, value)

	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		Message:        err.Error(),
		Cause:          err,
	}
}

func ErrServiceUnavailable(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusServiceUnavailable,
		Message:        http.StatusText(http.StatusServiceUnavailable),
		Cause:          err,
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        http.StatusText(http.StatusInternalServerError),
		Cause:          err,
	}
}
