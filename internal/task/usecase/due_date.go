package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"notion-task-intake/internal/model"
	"notion-task-intake/pkg/datemath"
)

// enrichDueDates resolves the due date of every node in the trees. Nodes are
// independent of each other, so all of them resolve concurrently.
func (uc *implUseCase) enrichDueDates(ctx context.Context, tasks []model.ParsedTask, now time.Time) error {
	g, gctx := errgroup.WithContext(ctx)

	var visit func(nodes []model.ParsedTask)
	visit = func(nodes []model.ParsedTask) {
		for i := range nodes {
			node := &nodes[i]
			explicit, text := node.DueDate, node.Text()
			g.Go(func() error {
				due, err := uc.resolveDueDate(gctx, explicit, text, now)
				if err != nil {
					return err
				}
				node.DueDate = due
				return nil
			})
			visit(node.Subtasks)
		}
	}
	visit(tasks)

	return g.Wait()
}

// resolveDueDate returns the canonical due instant for one node, or "".
// An explicit date wins; otherwise the model is asked only when the text
// hints at a deadline.
func (uc *implUseCase) resolveDueDate(ctx context.Context, explicit, text string, now time.Time) (string, error) {
	value := explicit
	if value == "" {
		if !datemath.HasDueDateHint(text) {
			return "", nil
		}

		var out dueDateResult
		prompt := fmt.Sprintf(dueDatePrompt, uc.dateMath.Today(now), text)
		if err := uc.llm.GenerateJSON(ctx, prompt, dueDateSchema(), &out); err != nil {
			uc.l.Errorf(ctx, "resolveDueDate: generation failed: %v", err)
			return "", fmt.Errorf("resolve due date: %w", err)
		}
		if out.DueDate == nil {
			return "", nil
		}
		value = *out.DueDate
	}

	due, ok := uc.dateMath.Normalize(value, now)
	if !ok {
		uc.l.Debugf(ctx, "resolveDueDate: dropping unparseable date %q", value)
		return "", nil
	}
	return datemath.FormatInstant(due), nil
}
