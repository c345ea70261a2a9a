package usecase

import (
	"context"
	"time"

	"notion-task-intake/internal/task"
	"notion-task-intake/internal/task/repository"
	"notion-task-intake/pkg/datemath"
	"notion-task-intake/pkg/gcalendar"
	pkgLog "notion-task-intake/pkg/log"
)

// Calendar mirrors dated tasks as calendar events.
type Calendar interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

type implUseCase struct {
	l          pkgLog.Logger
	llm        task.StructuredGenerator
	repo       repository.TaskRepository
	dateMath   *datemath.Parser
	calendar   Calendar // nil disables mirroring
	calendarID string
	now        func() time.Time
}

// New creates a new task UseCase instance.
func New(
	l pkgLog.Logger,
	llm task.StructuredGenerator,
	repo repository.TaskRepository,
	dateMath *datemath.Parser,
	calendar Calendar,
	calendarID string,
) task.UseCase {
	return &implUseCase{
		l:          l,
		llm:        llm,
		repo:       repo,
		dateMath:   dateMath,
		calendar:   calendar,
		calendarID: calendarID,
		now:        time.Now,
	}
}
