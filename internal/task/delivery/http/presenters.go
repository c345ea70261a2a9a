package http

import (
	"net/http"
	"strings"

	"notion-task-intake/internal/model"
	"notion-task-intake/internal/task"
	pkgErrors "notion-task-intake/pkg/errors"
)

// --- Request DTOs ---

type createReq struct {
	Text string `json:"text" binding:"required,min=1"`
}

func (r createReq) validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "text must not be blank")
	}
	return nil
}

func (r createReq) toCreateInput() task.CreateInput {
	return task.CreateInput{Text: r.Text}
}

func (r createReq) toExtractInput() task.ExtractInput {
	return task.ExtractInput{Text: r.Text}
}

// --- Response DTOs ---

type createResp struct {
	Tasks []model.CreatedTask `json:"tasks"`
}

func (h *handler) newCreateResp(out task.CreateOutput) createResp {
	tasks := out.Tasks
	if tasks == nil {
		tasks = []model.CreatedTask{}
	}
	return createResp{Tasks: tasks}
}

type parseResp struct {
	Tasks []model.ParsedTask `json:"tasks"`
}

func (h *handler) newParseResp(out task.ExtractOutput) parseResp {
	tasks := out.Tasks
	if tasks == nil {
		tasks = []model.ParsedTask{}
	}
	return parseResp{Tasks: tasks}
}

type databaseResp struct {
	ID         string   `json:"id"`
	Title      string   `json:"title,omitempty"`
	Properties []string `json:"properties"`
}

func newDatabaseResp(db model.Database) databaseResp {
	props := db.Properties
	if props == nil {
		props = []string{}
	}
	return databaseResp{
		ID:         db.ID,
		Title:      db.Title,
		Properties: props,
	}
}
