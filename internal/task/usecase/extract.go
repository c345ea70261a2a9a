package usecase

import (
	"context"
	"fmt"
	"strings"

	"notion-task-intake/internal/model"
	"notion-task-intake/internal/task"
)

// Extract turns free text into normalized task trees.
func (uc *implUseCase) Extract(ctx context.Context, sc model.Scope, input task.ExtractInput) (task.ExtractOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return task.ExtractOutput{}, task.ErrEmptyInput
	}

	uc.l.Infof(ctx, "Extract: user=%s source=%s input_length=%d", sc.UserID, sc.Source, len(text))

	tasks, err := uc.extract(ctx, text)
	if err != nil {
		return task.ExtractOutput{}, err
	}
	return task.ExtractOutput{Tasks: tasks}, nil
}

// extract asks the model for task trees, fills defaults and resolves due dates.
// The result is never empty.
func (uc *implUseCase) extract(ctx context.Context, text string) ([]model.ParsedTask, error) {
	now := uc.now()

	var result extractionResult
	prompt := fmt.Sprintf(extractionPrompt, uc.dateMath.Today(now), text)
	if err := uc.llm.GenerateJSON(ctx, prompt, extractionSchema(), &result); err != nil {
		uc.l.Errorf(ctx, "extract: generation failed: %v", err)
		return nil, fmt.Errorf("extract tasks: %w", err)
	}

	inputs := result.Tasks
	if len(inputs) == 0 {
		uc.l.Warnf(ctx, "extract: model returned no tasks, using the input as title")
		inputs = []model.ParsedTaskInput{{Title: fallbackTitle(text)}}
	}

	tasks := make([]model.ParsedTask, 0, len(inputs))
	for _, in := range inputs {
		tasks = append(tasks, model.ApplyDefaults(in))
	}

	if err := uc.enrichDueDates(ctx, tasks, now); err != nil {
		return nil, err
	}

	uc.l.Infof(ctx, "extract: parsed %d top-level tasks", len(tasks))
	return tasks, nil
}

func fallbackTitle(text string) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) > fallbackTitleLength {
		runes = runes[:fallbackTitleLength]
	}
	if title := strings.TrimSpace(string(runes)); title != "" {
		return title
	}
	return untitledTask
}

