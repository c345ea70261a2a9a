package repository

import (
	"context"

	"notion-task-intake/internal/model"
)

// TaskRepository stores task trees in the external document database.
type TaskRepository interface {
	// CreateTasks creates one page per node, top-level tasks in input order.
	CreateTasks(ctx context.Context, tasks []model.ParsedTask) ([]model.CreatedTask, error)

	// GetDatabase re-reads the database schema and describes it.
	GetDatabase(ctx context.Context) (model.Database, error)
}
