package http

import (
	"errors"
	"net/http"

	"notion-task-intake/internal/task"
	pkgErrors "notion-task-intake/pkg/errors"
)

// mapError translates domain errors into HTTP errors. Anything unrecognised
// is passed through and reported as 500.
func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, task.ErrEmptyInput):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
