package task

import "notion-task-intake/internal/model"

// CreateInput is the input for task creation.
type CreateInput struct {
	Text string // Natural language task descriptions from the user
}

// CreateOutput is the result of task creation, one tree per top-level task.
type CreateOutput struct {
	Tasks []model.CreatedTask
}

// ExtractInput is the input for a dry-run extraction.
type ExtractInput struct {
	Text string
}

// ExtractOutput holds the normalized task trees.
type ExtractOutput struct {
	Tasks []model.ParsedTask
}
