package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/redwanhasan980/TaskManagement/auth"
)

// UpdateTaskMessage replaces the mutable fields of a task. Non admin
// callers can only touch tasks they own.
type UpdateTaskMessage struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Status       Status
	Priority     Priority
	ActorID      uuid.UUID
	ActorIsAdmin bool
	OnResponse   func(*Task)
}

type UpdateTaskHandler struct {
	repo   Tasks
	logger auth.Logger
}

func NewUpdateTaskHandler(repo Tasks) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		repo:   repo,
		logger: auth.DefaultLogger("tasks:update"),
	}
}

func (h *UpdateTaskHandler) WithLogger(logger auth.Logger) *UpdateTaskHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *UpdateTaskHandler) Execute(ctx context.Context, event UpdateTaskMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return h.execute(ctx, event)
	}
}

func (h *UpdateTaskHandler) execute(ctx context.Context, event UpdateTaskMessage) error {
	task, err := h.lookup(ctx, event)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrTaskNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load task")
	}

	if event.Title != "" {
		task.Title = event.Title
	}
	if event.Description != "" {
		task.Description = event.Description
	}
	if event.Status != "" {
		task.Status = event.Status
	}
	if event.Priority != "" {
		task.Priority = event.Priority
	}

	if err := validateBoardFields(task); err != nil {
		return err
	}

	now := time.Now()
	task.UpdatedAt = &now

	record, err := h.repo.Update(ctx, task)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update task")
	}

	h.logger.Info("task updated: %s", record.ID)

	if event.OnResponse != nil {
		event.OnResponse(record)
	}

	return nil
}

func (h *UpdateTaskHandler) lookup(ctx context.Context, event UpdateTaskMessage) (*Task, error) {
	if event.ActorIsAdmin {
		return h.repo.GetByID(ctx, event.ID.String())
	}
	return h.repo.GetForOwner(ctx, event.ID, event.ActorID)
}
