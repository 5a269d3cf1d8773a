package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"

	"github.com/redwanhasan980/TaskManagement/auth"
)

type DeleteTaskMessage struct {
	ID           uuid.UUID
	ActorID      uuid.UUID
	ActorIsAdmin bool
}

type DeleteTaskHandler struct {
	repo   Tasks
	logger auth.Logger
}

func NewDeleteTaskHandler(repo Tasks) *DeleteTaskHandler {
	return &DeleteTaskHandler{
		repo:   repo,
		logger: auth.DefaultLogger("tasks:delete"),
	}
}

func (h *DeleteTaskHandler) WithLogger(logger auth.Logger) *DeleteTaskHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *DeleteTaskHandler) Execute(ctx context.Context, event DeleteTaskMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return h.execute(ctx, event)
	}
}

func (h *DeleteTaskHandler) execute(ctx context.Context, event DeleteTaskMessage) error {
	var task *Task
	var err error
	if event.ActorIsAdmin {
		task, err = h.repo.GetByID(ctx, event.ID.String())
	} else {
		task, err = h.repo.GetForOwner(ctx, event.ID, event.ActorID)
	}
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrTaskNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load task")
	}

	if err := h.repo.Remove(ctx, task); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete task")
	}

	h.logger.Info("task deleted: %s", task.ID)

	return nil
}
