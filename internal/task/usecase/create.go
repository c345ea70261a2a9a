package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"notion-task-intake/internal/model"
	"notion-task-intake/internal/task"
	"notion-task-intake/pkg/gcalendar"
)

// Create extracts task trees from text and stores them in Notion.
func (uc *implUseCase) Create(ctx context.Context, sc model.Scope, input task.CreateInput) (task.CreateOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return task.CreateOutput{}, task.ErrEmptyInput
	}

	uc.l.Infof(ctx, "Create: user=%s source=%s input_length=%d", sc.UserID, sc.Source, len(text))

	tasks, err := uc.extract(ctx, text)
	if err != nil {
		return task.CreateOutput{}, err
	}

	created, err := uc.repo.CreateTasks(ctx, tasks)
	if err != nil {
		return task.CreateOutput{}, fmt.Errorf("create tasks: %w", err)
	}

	uc.mirrorToCalendar(ctx, created)

	uc.l.Infof(ctx, "Create: created %d top-level tasks", len(created))
	return task.CreateOutput{Tasks: created}, nil
}

// mirrorToCalendar adds an event for every dated node. Failures only cost the link.
func (uc *implUseCase) mirrorToCalendar(ctx context.Context, nodes []model.CreatedTask) {
	if uc.calendar == nil {
		return
	}
	for i := range nodes {
		n := &nodes[i]
		if n.Task.DueDate != "" {
			n.CalendarLink = uc.tryCreateCalendarEvent(ctx, *n)
		}
		uc.mirrorToCalendar(ctx, n.Subtasks)
	}
}

// tryCreateCalendarEvent returns the event link, or "" on failure.
func (uc *implUseCase) tryCreateCalendarEvent(ctx context.Context, c model.CreatedTask) string {
	start, err := time.Parse(time.RFC3339, c.Task.DueDate)
	if err != nil {
		uc.l.Warnf(ctx, "Create: bad due date %q on %q: %v", c.Task.DueDate, c.Task.Title, err)
		return ""
	}

	event, err := uc.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  uc.calendarID,
		Summary:     c.Task.Title,
		Description: c.Task.Description,
		StartTime:   start,
		EndTime:     start.Add(calendarEventDuration),
		Timezone:    uc.dateMath.Location().String(),
		PageID:      c.ID,
		PageURL:     c.URL,
	})
	if err != nil {
		uc.l.Warnf(ctx, "Create: calendar event creation failed for %q (non-fatal): %v", c.Task.Title, err)
		return ""
	}
	return event.HtmlLink
}
