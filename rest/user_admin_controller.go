package rest

import (
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"

	"github.com/redwanhasan980/TaskManagement/auth"
)

var errUserNotFound = goerrors.New("User not found", goerrors.CategoryNotFound).
	WithTextCode("USER_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

var errSelfDelete = goerrors.New("You cannot delete your own account", goerrors.CategoryBadInput).
	WithTextCode("SELF_DELETE_DENIED").
	WithCode(goerrors.CodeBadRequest)

// UserAdminController exposes user management endpoints. Every route is
// behind the admin role middleware.
type UserAdminController struct {
	repo       auth.RepositoryManager
	contextKey string
	logger     Logger
}

func NewUserAdminController(repo auth.RepositoryManager, contextKey string) *UserAdminController {
	return &UserAdminController{
		repo:       repo,
		contextKey: contextKey,
		logger:     noopLogger{},
	}
}

func (c *UserAdminController) WithLogger(logger Logger) *UserAdminController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// List returns every account's public projection.
func (c *UserAdminController) List(ctx router.Context) error {
	users, err := c.repo.Users().ListAll(ctx.Context())
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	public := make([]auth.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, u.Public())
	}

	return respondData(ctx, router.StatusOK, map[string]any{
		"users": public,
		"count": len(public),
	})
}

// Get returns a single account by id.
func (c *UserAdminController) Get(ctx router.Context) error {
	user, err := c.lookup(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondData(ctx, router.StatusOK, map[string]any{
		"user": user.Public(),
	})
}

// Update changes an account's username, email, or role.
func (c *UserAdminController) Update(ctx router.Context) error {
	user, err := c.lookup(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	payload := new(AdminUpdateUserPayload)
	if err := ctx.Bind(payload); err != nil {
		return respondError(ctx, c.logger, badBody(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(ctx, c.logger, err)
	}

	role, ok := auth.ParseRole(payload.Role)
	if !ok {
		return respondError(ctx, c.logger, goerrors.New(`Role must be either "admin" or "user"`, goerrors.CategoryBadInput).
			WithTextCode(auth.TextCodeInvalidRole).
			WithCode(goerrors.CodeBadRequest))
	}

	user.Username = payload.Username
	user.Email = payload.Email
	user.Role = role

	updated, err := c.repo.Users().Update(ctx.Context(), user)
	if err != nil {
		if auth.IsUniqueViolation(err) {
			return respondError(ctx, c.logger, auth.ErrEmailTaken)
		}
		return respondError(ctx, c.logger, err)
	}

	return ctx.JSON(router.StatusOK, envelope{
		Success: true,
		Message: "User updated successfully",
		Data: map[string]any{
			"user": updated.Public(),
		},
	})
}

// Delete removes an account. Admins cannot delete themselves.
func (c *UserAdminController) Delete(ctx router.Context) error {
	claims, ok := auth.GetRouterClaims(ctx, c.contextKey)
	if !ok {
		return respondError(ctx, c.logger, auth.ErrUnableToFindSession)
	}

	user, err := c.lookup(ctx)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	if claims.UserID() == user.ID.String() {
		return respondError(ctx, c.logger, errSelfDelete)
	}

	if err := c.repo.Users().Remove(ctx.Context(), user); err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondMessage(ctx, router.StatusOK, "User deleted successfully")
}

func (c *UserAdminController) lookup(ctx router.Context) (*auth.User, error) {
	user, err := c.repo.Users().GetByID(ctx.Context(), ctx.Param("id"))
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	return user, nil
}
