package telegram_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"notion-task-intake/internal/model"
	"notion-task-intake/internal/task"
	"notion-task-intake/internal/task/delivery/telegram"
	"notion-task-intake/pkg/log"
	pkgTelegram "notion-task-intake/pkg/telegram"
)

// ── Mocks ──────────────────────────────────────────────────────────────────

type mockTaskUseCase struct {
	mu        sync.Mutex
	createOut task.CreateOutput
	createErr error
	lastInput task.CreateInput
	lastScope model.Scope
}

func (m *mockTaskUseCase) Create(ctx context.Context, sc model.Scope, input task.CreateInput) (task.CreateOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastInput = input
	m.lastScope = sc
	return m.createOut, m.createErr
}

func (m *mockTaskUseCase) Extract(ctx context.Context, sc model.Scope, input task.ExtractInput) (task.ExtractOutput, error) {
	return task.ExtractOutput{}, nil
}

func (m *mockTaskUseCase) DatabaseInfo(ctx context.Context, sc model.Scope) (model.Database, error) {
	return model.Database{}, nil
}

func (m *mockTaskUseCase) snapshot() (task.CreateInput, model.Scope) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInput, m.lastScope
}

// capturedMessages collects sendMessage texts from the fake Bot API.
type capturedMessages struct {
	mu   sync.Mutex
	msgs []string
}

func (c *capturedMessages) add(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, s)
}

func (c *capturedMessages) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

// ── Test Helpers ───────────────────────────────────────────────────────────

type testEnv struct {
	engine   *gin.Engine
	muc      *mockTaskUseCase
	captured *capturedMessages
}

func newTestEnv(t *testing.T, cfg telegram.Config) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	captured := &capturedMessages{}
	tgServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/sendMessage") {
			var payload map[string]interface{}
			json.NewDecoder(r.Body).Decode(&payload)
			if text, ok := payload["text"].(string); ok {
				captured.add(text)
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok": true}`))
	}))
	t.Cleanup(tgServer.Close)

	bot := pkgTelegram.NewBot("test-token")
	bot.SetAPIURL(tgServer.URL)

	muc := &mockTaskUseCase{}
	engine := gin.New()
	h := telegram.New(log.NewNop(), muc, bot, cfg)
	engine.POST("/webhook/telegram", h.HandleWebhook)

	return &testEnv{engine: engine, muc: muc, captured: captured}
}

func sendWebhook(engine *gin.Engine, text string, headers map[string]string) *httptest.ResponseRecorder {
	update := pkgTelegram.Update{
		UpdateID: 1,
		Message: &pkgTelegram.Message{
			MessageID: 1,
			Chat:      &pkgTelegram.Chat{ID: 123},
			From:      &pkgTelegram.User{ID: 456, Username: "alex"},
			Text:      text,
		},
	}
	body, _ := json.Marshal(update)
	req, _ := http.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func waitForMessages(c *capturedMessages, atLeast int, timeout time.Duration) []string {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) && len(c.all()) < atLeast {
		time.Sleep(20 * time.Millisecond)
	}
	return c.all()
}

func assertContains(t *testing.T, msgs []string, substr string) {
	t.Helper()
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			return
		}
	}
	t.Errorf("expected a message containing %q, got: %v", substr, msgs)
}

// ── Tests ──────────────────────────────────────────────────────────────────

func TestHandleWebhook_InvalidJSON(t *testing.T) {
	env := newTestEnv(t, telegram.Config{})

	req, _ := http.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBufferString("{bad json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestHandleWebhook_NonMessageUpdate(t *testing.T) {
	env := newTestEnv(t, telegram.Config{})

	body, _ := json.Marshal(pkgTelegram.Update{UpdateID: 1})
	req, _ := http.NewRequest(http.MethodPost, "/webhook/telegram", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ignored") {
		t.Errorf("expected ignored status, got %s", w.Body.String())
	}
}

func TestHandleWebhook_SecretToken(t *testing.T) {
	env := newTestEnv(t, telegram.Config{WebhookSecret: "s3cret"})

	w := sendWebhook(env.engine, "/start", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", w.Code)
	}

	w = sendWebhook(env.engine, "/start", map[string]string{pkgTelegram.SecretTokenHeader: "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong secret, got %d", w.Code)
	}

	w = sendWebhook(env.engine, "/start", map[string]string{pkgTelegram.SecretTokenHeader: "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with secret, got %d", w.Code)
	}
	msgs := waitForMessages(env.captured, 1, time.Second)
	assertContains(t, msgs, "Welcome")
}

func TestHandleStart(t *testing.T) {
	env := newTestEnv(t, telegram.Config{})

	w := sendWebhook(env.engine, "/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	msgs := waitForMessages(env.captured, 1, time.Second)
	assertContains(t, msgs, "Welcome")
}

func TestHandleHelp(t *testing.T) {
	env := newTestEnv(t, telegram.Config{})

	sendWebhook(env.engine, "/help", nil)
	msgs := waitForMessages(env.captured, 1, time.Second)
	assertContains(t, msgs, "How to use")
}

func TestHandleMessage_CreatesTasks(t *testing.T) {
	env := newTestEnv(t, telegram.Config{})
	env.muc.createOut = task.CreateOutput{Tasks: []model.CreatedTask{{
		ID:  "p1",
		URL: "https://notion.so/p1",
		Task: model.ParsedTask{
			Title:   "Finish quarterly report",
			DueDate: "2024-03-12T00:00:00Z",
		},
		Subtasks: []model.CreatedTask{
			{ID: "p2", URL: "https://notion.so/p2", Task: model.ParsedTask{Title: "Gather numbers"}},
			{ID: "p3", URL: "https://notion.so/p3", Task: model.ParsedTask{Title: "Draft summary"}},
		},
		CalendarLink: "https://calendar.google.com/event?eid=1",
	}}}

	w := sendWebhook(env.engine, "Finish quarterly report tomorrow", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	msgs := waitForMessages(env.captured, 2, time.Second)
	assertContains(t, msgs, "Processing")
	assertContains(t, msgs, "Created 3 task(s)")
	assertContains(t, msgs, "1. Finish quarterly report (due 2024-03-12T00:00:00Z)")
	assertContains(t, msgs, "https://notion.so/p3")
	assertContains(t, msgs, "Calendar: https://calendar.google.com/event?eid=1")

	input, sc := env.muc.snapshot()
	if input.Text != "Finish quarterly report tomorrow" {
		t.Errorf("unexpected input: %+v", input)
	}
	if sc.UserID != "telegram_456" || sc.Username != "alex" || sc.Source != "telegram" {
		t.Errorf("unexpected scope: %+v", sc)
	}
}

func TestHandleMessage_UseCaseError(t *testing.T) {
	env := newTestEnv(t, telegram.Config{})
	env.muc.createErr = errors.New("notion: create page: boom")

	sendWebhook(env.engine, "Do the thing", nil)

	msgs := waitForMessages(env.captured, 2, time.Second)
	assertContains(t, msgs, "Something went wrong")
	for _, m := range msgs {
		if strings.Contains(m, "boom") {
			t.Errorf("internal error leaked to the user: %q", m)
		}
	}
}

func TestHandleMessage_EmptyText(t *testing.T) {
	env := newTestEnv(t, telegram.Config{})

	w := sendWebhook(env.engine, "   ", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	time.Sleep(100 * time.Millisecond)
	if msgs := env.captured.all(); len(msgs) != 0 {
		t.Errorf("expected no replies, got %v", msgs)
	}
}
