package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/goliatone/go-errors"

	"github.com/redwanhasan980/TaskManagement/auth"
)

type CreateTaskMessage struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	OwnerID     uuid.UUID
	OnResponse  func(*Task)
}

type CreateTaskHandler struct {
	repo   Tasks
	logger auth.Logger
}

func NewCreateTaskHandler(repo Tasks) *CreateTaskHandler {
	return &CreateTaskHandler{
		repo:   repo,
		logger: auth.DefaultLogger("tasks:create"),
	}
}

func (h *CreateTaskHandler) WithLogger(logger auth.Logger) *CreateTaskHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *CreateTaskHandler) Execute(ctx context.Context, event CreateTaskMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return h.execute(ctx, event)
	}
}

func (h *CreateTaskHandler) execute(ctx context.Context, event CreateTaskMessage) error {
	task := &Task{
		Title:       event.Title,
		Description: event.Description,
		Status:      event.Status,
		Priority:    event.Priority,
		UserID:      event.OwnerID,
	}

	if err := validateBoardFields(task); err != nil {
		return err
	}

	prepareTaskDefaults(task)

	record, err := h.repo.Create(ctx, task)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create task")
	}

	h.logger.Info("task created: %s owner=%s", record.ID, record.UserID)

	if event.OnResponse != nil {
		event.OnResponse(record)
	}

	return nil
}

func validateBoardFields(task *Task) error {
	if task.Status != "" && !task.Status.IsValid() {
		return ErrInvalidStatus
	}
	if task.Priority != "" && !task.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}
