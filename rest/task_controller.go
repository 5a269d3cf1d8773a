package rest

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/redwanhasan980/TaskManagement/auth"
	"github.com/redwanhasan980/TaskManagement/tasks"
)

// TaskController exposes the task board endpoints. All routes require
// an authenticated session.
type TaskController struct {
	repo       tasks.Tasks
	create     *tasks.CreateTaskHandler
	update     *tasks.UpdateTaskHandler
	remove     *tasks.DeleteTaskHandler
	contextKey string
	logger     Logger
}

func NewTaskController(repo tasks.Tasks, contextKey string) *TaskController {
	return &TaskController{
		repo:       repo,
		create:     tasks.NewCreateTaskHandler(repo),
		update:     tasks.NewUpdateTaskHandler(repo),
		remove:     tasks.NewDeleteTaskHandler(repo),
		contextKey: contextKey,
		logger:     noopLogger{},
	}
}

func (c *TaskController) WithLogger(logger Logger) *TaskController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Create adds a task to the caller's board.
func (c *TaskController) Create(ctx router.Context) error {
	_, actorID, err := c.actor(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	payload := new(CreateTaskPayload)
	if err := ctx.Bind(payload); err != nil {
		return respondError(ctx, c.logger, badBody(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(ctx, c.logger, err)
	}

	var created *tasks.Task
	err = c.create.Execute(ctx.Context(), tasks.CreateTaskMessage{
		Title:       payload.Title,
		Description: payload.Description,
		Status:      tasks.Status(payload.Status),
		Priority:    tasks.Priority(payload.Priority),
		OwnerID:     actorID,
		OnResponse: func(t *tasks.Task) {
			created = t
		},
	})
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return ctx.JSON(router.StatusCreated, envelope{
		Success: true,
		Message: "Task created successfully",
		Data: map[string]any{
			"task": created,
		},
	})
}

// List returns the caller's tasks, optionally filtered by status and
// priority query params, newest first.
func (c *TaskController) List(ctx router.Context) error {
	_, actorID, err := c.actor(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	filters := tasks.Filters{
		Status:   tasks.Status(ctx.Query("status", "")),
		Priority: tasks.Priority(ctx.Query("priority", "")),
	}

	records, err := c.repo.ListByOwner(ctx.Context(), actorID, filters)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondData(ctx, router.StatusOK, map[string]any{
		"tasks": records,
		"count": len(records),
	})
}

// Get returns a single task owned by the caller.
func (c *TaskController) Get(ctx router.Context) error {
	_, actorID, err := c.actor(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	id, err := c.taskID(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	record, err := c.repo.GetForOwner(ctx.Context(), id, actorID)
	if err != nil {
		return respondError(ctx, c.logger, tasks.ErrTaskNotFound)
	}

	return respondData(ctx, router.StatusOK, map[string]any{
		"task": record,
	})
}

// Update modifies a task. Owners can touch their own tasks, admins any.
func (c *TaskController) Update(ctx router.Context) error {
	claims, actorID, err := c.actor(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	id, err := c.taskID(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	payload := new(UpdateTaskPayload)
	if err := ctx.Bind(payload); err != nil {
		return respondError(ctx, c.logger, badBody(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(ctx, c.logger, err)
	}

	var updated *tasks.Task
	err = c.update.Execute(ctx.Context(), tasks.UpdateTaskMessage{
		ID:           id,
		Title:        payload.Title,
		Description:  payload.Description,
		Status:       tasks.Status(payload.Status),
		Priority:     tasks.Priority(payload.Priority),
		ActorID:      actorID,
		ActorIsAdmin: claims.HasRole(string(auth.RoleAdmin)),
		OnResponse: func(t *tasks.Task) {
			updated = t
		},
	})
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return ctx.JSON(router.StatusOK, envelope{
		Success: true,
		Message: "Task updated successfully",
		Data: map[string]any{
			"task": updated,
		},
	})
}

// Delete removes a task from the board.
func (c *TaskController) Delete(ctx router.Context) error {
	claims, actorID, err := c.actor(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	id, err := c.taskID(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	err = c.remove.Execute(ctx.Context(), tasks.DeleteTaskMessage{
		ID:           id,
		ActorID:      actorID,
		ActorIsAdmin: claims.HasRole(string(auth.RoleAdmin)),
	})
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondMessage(ctx, router.StatusOK, "Task deleted successfully")
}

// Stats aggregates the caller's board by status.
func (c *TaskController) Stats(ctx router.Context) error {
	_, actorID, err := c.actor(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	stats, err := c.repo.StatsByOwner(ctx.Context(), actorID)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondData(ctx, router.StatusOK, map[string]any{
		"stats": stats,
	})
}

// AdminListAll returns every task with owner info. Routes using it are
// guarded by the admin role middleware.
func (c *TaskController) AdminListAll(ctx router.Context) error {
	filters := tasks.Filters{
		Status:   tasks.Status(ctx.Query("status", "")),
		Priority: tasks.Priority(ctx.Query("priority", "")),
	}

	if rawOwner := ctx.Query("userId", ""); rawOwner != "" {
		ownerID, err := uuid.Parse(rawOwner)
		if err != nil {
			return respondError(ctx, c.logger, goerrors.New("userId must be a valid UUID", goerrors.CategoryBadInput).
				WithCode(goerrors.CodeBadRequest))
		}
		filters.OwnerID = ownerID
	}

	records, err := c.repo.ListAllWithOwners(ctx.Context(), filters)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondData(ctx, router.StatusOK, map[string]any{
		"tasks": records,
		"count": len(records),
	})
}

func (c *TaskController) actor(ctx router.Context) (auth.AuthClaims, uuid.UUID, error) {
	claims, ok := auth.GetRouterClaims(ctx, c.contextKey)
	if !ok {
		return nil, uuid.Nil, auth.ErrUnableToFindSession
	}

	actorID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, uuid.Nil, auth.ErrUnableToMapClaims
	}

	return claims, actorID, nil
}

func (c *TaskController) taskID(ctx router.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, tasks.ErrTaskNotFound
	}
	return id, nil
}
