package http

import (
	"github.com/gin-gonic/gin"

	"notion-task-intake/pkg/response"
)

// Create godoc
// @Summary     Create tasks from free text
// @Description Extracts one or more task trees from the text and stores every node as a page in the Notion database.
// @Tags        Task
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       body body     createReq true "Free text describing the work"
// @Success     200  {object} createResp
// @Failure     400  {object} response.ErrorResp "Bad Request"
// @Failure     401  {object} response.ErrorResp "Unauthorized"
// @Failure     500  {object} response.ErrorResp "Internal Server Error"
// @Router      /task [POST]
func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCreateReq(c)
	if err != nil {
		h.l.Warnf(ctx, "task.delivery.http.Create: invalid request: %v", err)
		response.Error(c, err)
		return
	}

	output, err := h.uc.Create(ctx, h.scope(c), req.toCreateInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Create: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newCreateResp(output))
}

// Parse godoc
// @Summary     Extract tasks without storing them
// @Description Runs the extraction pipeline (defaults and due dates included) and returns the task trees. Nothing is written to Notion.
// @Tags        Task
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       body body     createReq true "Free text describing the work"
// @Success     200  {object} parseResp
// @Failure     400  {object} response.ErrorResp "Bad Request"
// @Failure     401  {object} response.ErrorResp "Unauthorized"
// @Failure     500  {object} response.ErrorResp "Internal Server Error"
// @Router      /task/parse [POST]
func (h *handler) Parse(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCreateReq(c)
	if err != nil {
		h.l.Warnf(ctx, "task.delivery.http.Parse: invalid request: %v", err)
		response.Error(c, err)
		return
	}

	output, err := h.uc.Extract(ctx, h.scope(c), req.toExtractInput())
	if err != nil {
		h.l.Errorf(ctx, "uc.Extract: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, h.newParseResp(output))
}

// Database godoc
// @Summary     Describe the Notion database
// @Description Returns the target database id, its title and its property names in declared order.
// @Tags        Notion
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} databaseResp
// @Failure     401 {object} response.ErrorResp "Unauthorized"
// @Failure     500 {object} response.ErrorResp "Internal Server Error"
// @Router      /notion/database [GET]
func (h *handler) Database(c *gin.Context) {
	ctx := c.Request.Context()

	db, err := h.uc.DatabaseInfo(ctx, h.scope(c))
	if err != nil {
		h.l.Errorf(ctx, "uc.DatabaseInfo: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, newDatabaseResp(db))
}
