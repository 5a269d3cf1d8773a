package tasks

import "github.com/goliatone/go-errors"

const (
	TextCodeTaskNotFound    = "TASK_NOT_FOUND"
	TextCodeInvalidStatus   = "INVALID_STATUS"
	TextCodeInvalidPriority = "INVALID_PRIORITY"
)

var ErrTaskNotFound = errors.New("Task not found", errors.CategoryNotFound).
	WithTextCode(TextCodeTaskNotFound).
	WithCode(errors.CodeNotFound)

var ErrInvalidStatus = errors.New(`Status must be one of "To Do", "In Progress", "Done"`, errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidStatus).
	WithCode(errors.CodeBadRequest)

var ErrInvalidPriority = errors.New(`Priority must be one of "Low", "Medium", "High"`, errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidPriority).
	WithCode(errors.CodeBadRequest)
