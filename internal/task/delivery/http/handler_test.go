package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notion-task-intake/internal/middleware"
	"notion-task-intake/internal/model"
	"notion-task-intake/internal/task"
	pkgErrors "notion-task-intake/pkg/errors"
	"notion-task-intake/pkg/log"
)

const testAPIKey = "test-key"

type mockUseCase struct {
	createIn  task.CreateInput
	createOut task.CreateOutput
	createErr error

	extractIn  task.ExtractInput
	extractOut task.ExtractOutput
	extractErr error

	db    model.Database
	dbErr error

	calls int
	scope model.Scope
}

func (m *mockUseCase) Create(ctx context.Context, sc model.Scope, input task.CreateInput) (task.CreateOutput, error) {
	m.calls++
	m.scope = sc
	m.createIn = input
	return m.createOut, m.createErr
}

func (m *mockUseCase) Extract(ctx context.Context, sc model.Scope, input task.ExtractInput) (task.ExtractOutput, error) {
	m.calls++
	m.scope = sc
	m.extractIn = input
	return m.extractOut, m.extractErr
}

func (m *mockUseCase) DatabaseInfo(ctx context.Context, sc model.Scope) (model.Database, error) {
	m.calls++
	m.scope = sc
	return m.db, m.dbErr
}

func newTestServer(uc task.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mw := middleware.New(log.NewNop(), middleware.Config{APIKey: testAPIKey})
	RegisterRoutes(r.Group(""), New(log.NewNop(), uc), mw)
	return r
}

func do(r http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set(middleware.DefaultAuthHeader, testAPIKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	uc := &mockUseCase{
		createOut: task.CreateOutput{Tasks: []model.CreatedTask{{
			ID:  "page-1",
			URL: "https://notion.so/page-1",
			Task: model.ParsedTask{
				Title:    "Write report",
				Priority: model.PriorityLow,
				Status:   model.StatusNotStarted,
				Effort:   model.EffortS,
				TaskType: "Task",
				Subtasks: []model.ParsedTask{},
			},
			Subtasks: []model.CreatedTask{},
		}}},
	}
	r := newTestServer(uc)

	w := do(r, http.MethodPost, "/task", `{"text":"Write report"}`, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Write report", uc.createIn.Text)
	assert.Equal(t, "http", uc.scope.Source)
	assert.JSONEq(t, `{"tasks":[{
		"id":"page-1",
		"url":"https://notion.so/page-1",
		"task":{"title":"Write report","priority":"Low","status":"Not Started","effort":"S","taskType":"Task","subtasks":[]},
		"subtasks":[]
	}]}`, w.Body.String())
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"empty text", `{"text":""}`},
		{"blank text", `{"text":"   "}`},
		{"wrong type", `{"text":42}`},
		{"malformed json", `{"text":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockUseCase{}
			w := do(newTestServer(uc), http.MethodPost, "/task", tc.body, true)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"invalid_request"`)
			assert.Zero(t, uc.calls)
		})
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"empty input", task.ErrEmptyInput, http.StatusBadRequest, "invalid_request"},
		{"upstream failure", errors.New("notion: create page: boom"), http.StatusInternalServerError, "internal_error"},
		{"status carrying error", pkgErrors.NewHTTPError(http.StatusNotFound, "gone"), http.StatusNotFound, "not_found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockUseCase{createErr: tc.err}
			w := do(newTestServer(uc), http.MethodPost, "/task", `{"text":"x"}`, true)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"`+tc.wantKind+`"`)
		})
	}
}

func TestParse(t *testing.T) {
	uc := &mockUseCase{
		extractOut: task.ExtractOutput{Tasks: []model.ParsedTask{{
			Title:    "Plan offsite",
			DueDate:  "2024-03-12T00:00:00Z",
			Priority: model.PriorityHigh,
			Status:   model.StatusNotStarted,
			Effort:   model.EffortM,
			TaskType: "Task",
			Subtasks: []model.ParsedTask{},
		}}},
	}
	r := newTestServer(uc)

	w := do(r, http.MethodPost, "/task/parse", `{"text":"Plan offsite tomorrow"}`, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Plan offsite tomorrow", uc.extractIn.Text)
	assert.JSONEq(t, `{"tasks":[{
		"title":"Plan offsite",
		"dueDate":"2024-03-12T00:00:00Z",
		"priority":"High",
		"status":"Not Started",
		"effort":"M",
		"taskType":"Task",
		"subtasks":[]
	}]}`, w.Body.String())
}

func TestDatabase(t *testing.T) {
	t.Run("with title", func(t *testing.T) {
		uc := &mockUseCase{db: model.Database{ID: "db-1", Title: "Tasks", Properties: []string{"Name", "Status"}}}
		w := do(newTestServer(uc), http.MethodGet, "/notion/database", "", true)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"db-1","title":"Tasks","properties":["Name","Status"]}`, w.Body.String())
	})

	t.Run("untitled and empty", func(t *testing.T) {
		uc := &mockUseCase{db: model.Database{ID: "db-1"}}
		w := do(newTestServer(uc), http.MethodGet, "/notion/database", "", true)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"db-1","properties":[]}`, w.Body.String())
	})

	t.Run("upstream error", func(t *testing.T) {
		uc := &mockUseCase{dbErr: errors.New("notion: retrieve database: unauthorized")}
		w := do(newTestServer(uc), http.MethodGet, "/notion/database", "", true)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal_error","message":"notion: retrieve database: unauthorized"}`, w.Body.String())
	})
}

func TestRoutes_RequireAuth(t *testing.T) {
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/task"},
		{http.MethodPost, "/task/parse"},
		{http.MethodGet, "/notion/database"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			uc := &mockUseCase{}
			w := do(newTestServer(uc), rt.method, rt.path, `{"text":"x"}`, false)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
			assert.Zero(t, uc.calls)
		})
	}
}
