package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"notion-task-intake/pkg/response"
)

// Recovery turns a panic into a 500 internal_error response.
func (m Middleware) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		m.l.Errorf(c.Request.Context(), "middleware.Recovery: panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		response.InternalError(c, fmt.Sprint(recovered))
	})
}
