package telegram

import (
	"errors"

	"notion-task-intake/internal/task"
)

const genericFailure = "Something went wrong while processing your message. Please try again."

// errorMessage returns a user-facing error string for the given error.
func errorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, task.ErrEmptyInput):
		return "Send me a description of the work and I will turn it into tasks."
	default:
		return genericFailure
	}
}
