package task

import (
	"context"

	"notion-task-intake/internal/model"
)

// UseCase defines the business logic interface for the task domain.
type UseCase interface {
	// Create extracts tasks from free text and stores each node as a Notion page.
	Create(ctx context.Context, sc model.Scope, input CreateInput) (CreateOutput, error)

	// Extract turns free text into normalized task trees without storing anything.
	Extract(ctx context.Context, sc model.Scope, input ExtractInput) (ExtractOutput, error)

	// DatabaseInfo describes the target Notion database.
	DatabaseInfo(ctx context.Context, sc model.Scope) (model.Database, error)
}

// StructuredGenerator produces a JSON document matching a JSON Schema and
// decodes it into out.
type StructuredGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema map[string]interface{}, out interface{}) error
}
