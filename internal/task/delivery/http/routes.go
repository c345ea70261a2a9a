package http

import (
	"github.com/gin-gonic/gin"

	"notion-task-intake/internal/middleware"
)

// RegisterRoutes maps HTTP verbs and paths to handler methods.
// All routes are protected by the Auth middleware.
func RegisterRoutes(rg *gin.RouterGroup, h *handler, mw middleware.Middleware) {
	tasks := rg.Group("/task", mw.Auth())
	{
		tasks.POST("", h.Create)
		tasks.POST("/parse", h.Parse)
	}

	rg.GET("/notion/database", mw.Auth(), h.Database)
}
