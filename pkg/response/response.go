package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgErrors "notion-task-intake/pkg/errors"
)

// OK sends 200 JSON with data as the body.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error sends the status carried by err (500 when none) with an ErrorResp body.
func Error(c *gin.Context, err error) {
	c.JSON(pkgErrors.StatusCode(err), ErrorResp{
		Error:   pkgErrors.Kind(err),
		Message: err.Error(),
	})
}

// Unauthorized aborts the request with 401.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResp{Error: KindUnauthorized})
}

// TooManyRequests aborts the request with 429.
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResp{Error: KindRateLimited})
}

// InternalError aborts the request with 500 and the given message.
func InternalError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResp{
		Error:   KindInternalError,
		Message: message,
	})
}
