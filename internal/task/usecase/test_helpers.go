package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"notion-task-intake/internal/model"
	"notion-task-intake/pkg/datemath"
	"notion-task-intake/pkg/gcalendar"
)

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// mockGenerator answers the extraction prompt with extraction and every
// due-date prompt by looking the task text up in dueDates.
type mockGenerator struct {
	mu sync.Mutex

	extraction    string
	extractionErr error
	dueDates      map[string]string // task text -> raw JSON answer
	dueDateErr    error

	extractionCalls int
	dueDateTexts    []string
}

func (m *mockGenerator) GenerateJSON(ctx context.Context, prompt string, schema map[string]interface{}, out interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.HasPrefix(prompt, "Extract the tasks") {
		m.extractionCalls++
		if m.extractionErr != nil {
			return m.extractionErr
		}
		return json.Unmarshal([]byte(m.extraction), out)
	}

	idx := strings.Index(prompt, "Task:\n")
	if idx == -1 {
		return fmt.Errorf("unexpected prompt: %q", prompt)
	}
	text := prompt[idx+len("Task:\n"):]
	m.dueDateTexts = append(m.dueDateTexts, text)
	if m.dueDateErr != nil {
		return m.dueDateErr
	}
	answer, ok := m.dueDates[text]
	if !ok {
		answer = `{"dueDate": null}`
	}
	return json.Unmarshal([]byte(answer), out)
}

// mockRepo echoes tasks back with sequential ids.
type mockRepo struct {
	fail     bool
	received []model.ParsedTask
	next     int
	db       model.Database
}

func (m *mockRepo) CreateTasks(ctx context.Context, tasks []model.ParsedTask) ([]model.CreatedTask, error) {
	if m.fail {
		return nil, errors.New("notion unavailable")
	}
	m.received = tasks
	return m.createAll(tasks), nil
}

func (m *mockRepo) createAll(tasks []model.ParsedTask) []model.CreatedTask {
	out := make([]model.CreatedTask, 0, len(tasks))
	for _, t := range tasks {
		m.next++
		id := fmt.Sprintf("page-%d", m.next)
		out = append(out, model.CreatedTask{
			ID:       id,
			URL:      "https://notion.so/" + id,
			Task:     t,
			Subtasks: m.createAll(t.Subtasks),
		})
	}
	return out
}

func (m *mockRepo) GetDatabase(ctx context.Context) (model.Database, error) {
	if m.fail {
		return model.Database{}, errors.New("notion unavailable")
	}
	return m.db, nil
}

// mockCalendar records events and fails for summaries listed in failFor.
type mockCalendar struct {
	events  []gcalendar.CreateEventRequest
	failFor map[string]bool
}

func (m *mockCalendar) CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error) {
	if m.failFor[req.Summary] {
		return nil, errors.New("calendar quota exceeded")
	}
	m.events = append(m.events, req)
	return &gcalendar.Event{ID: "evt", HtmlLink: "https://calendar.google.com/event?eid=" + req.Summary}, nil
}

// fixedNow is Monday 2024-03-11 09:30 UTC.
var fixedNow = time.Date(2024, time.March, 11, 9, 30, 0, 0, time.UTC)

func newTestUseCase(gen *mockGenerator, repo *mockRepo, calendar Calendar) *implUseCase {
	dm, err := datemath.NewParser("UTC")
	if err != nil {
		panic(err)
	}
	return &implUseCase{
		l:          &mockLogger{},
		llm:        gen,
		repo:       repo,
		dateMath:   dm,
		calendar:   calendar,
		calendarID: "primary",
		now:        func() time.Time { return fixedNow },
	}
}
