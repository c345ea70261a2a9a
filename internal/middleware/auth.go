package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"notion-task-intake/pkg/response"
)

// DefaultAuthHeader is used when no header name is configured.
const DefaultAuthHeader = "x-api-key"

// Auth rejects requests whose shared-secret header does not match the configured key.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(m.authHeader)
		if m.apiKey == "" || subtle.ConstantTimeCompare([]byte(got), []byte(m.apiKey)) != 1 {
			m.l.Warnf(c.Request.Context(), "middleware.Auth: rejected %s %s from %s", c.Request.Method, c.FullPath(), c.ClientIP())
			response.Unauthorized(c)
			return
		}
		c.Next()
	}
}
