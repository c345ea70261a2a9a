package usecase

import (
	"context"

	"notion-task-intake/internal/model"
)

// DatabaseInfo describes the Notion database tasks are written to.
func (uc *implUseCase) DatabaseInfo(ctx context.Context, sc model.Scope) (model.Database, error) {
	db, err := uc.repo.GetDatabase(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "DatabaseInfo: %v", err)
		return model.Database{}, err
	}
	return db, nil
}
