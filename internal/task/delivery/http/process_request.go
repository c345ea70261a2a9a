package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notion-task-intake/internal/model"
	pkgErrors "notion-task-intake/pkg/errors"
)

const sourceHTTP = "http"

// processCreateReq binds and validates the {text} request body.
func (h *handler) processCreateReq(c *gin.Context) (createReq, error) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, pkgErrors.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, req.validate()
}

// scope identifies the caller; HTTP clients share one API key, so the client IP stands in for a user.
func (h *handler) scope(c *gin.Context) model.Scope {
	return model.Scope{
		UserID: c.ClientIP(),
		Source: sourceHTTP,
	}
}
