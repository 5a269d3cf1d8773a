package rest

import (
	"github.com/goliatone/go-router"

	"github.com/redwanhasan980/TaskManagement/auth"
	"github.com/redwanhasan980/TaskManagement/tasks"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config   auth.Config
	Repo     auth.RepositoryManager
	Tasks    tasks.Tasks
	Auther   auth.Authenticator
	Tokens   auth.TokenService
	Notifier auth.Notifier
	Activity auth.ActivitySink
	Logger   Logger
}

// RegisterRoutes mounts the full API under /api plus the health probe.
func RegisterRoutes[T any](app router.Router[T], deps Deps) {
	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	contextKey := deps.Config.GetContextKey()
	validator := NewTokenValidator(deps.Tokens)

	protected := Protected(deps.Config, validator, logger)
	adminOnly := AdminOnly(deps.Config, validator, logger)
	optional := OptionalAuth(deps.Config, validator)

	authCtrl := NewAuthController(deps.Repo, deps.Auther, contextKey).
		WithLogger(logger).
		WithNotifier(deps.Notifier).
		WithActivitySink(deps.Activity)

	taskCtrl := NewTaskController(deps.Tasks, contextKey).
		WithLogger(logger)

	userCtrl := NewUserAdminController(deps.Repo, contextKey).
		WithLogger(logger)

	app.Get("/health", func(ctx router.Context) error {
		return respondData(ctx, router.StatusOK, map[string]any{
			"status": "ok",
		})
	})

	api := app.Group("/api")

	ar := api.Group("/auth")
	ar.Post("/register", authCtrl.Register, optional)
	ar.Get("/verify-email", authCtrl.VerifyEmail)
	ar.Post("/login", authCtrl.Login)
	ar.Post("/forgot-password", authCtrl.ForgotPassword)
	ar.Post("/reset-password", authCtrl.ResetPassword)
	ar.Get("/profile", authCtrl.Profile, protected)
	ar.Put("/profile", authCtrl.UpdateProfile, protected)
	ar.Post("/logout", authCtrl.Logout, protected)

	tr := api.Group("/tasks")
	tr.Get("/admin/all", taskCtrl.AdminListAll, adminOnly)
	tr.Get("/stats", taskCtrl.Stats, protected)
	tr.Post("/", taskCtrl.Create, protected)
	tr.Get("/", taskCtrl.List, protected)
	tr.Get("/:id", taskCtrl.Get, protected)
	tr.Put("/:id", taskCtrl.Update, protected)
	tr.Delete("/:id", taskCtrl.Delete, protected)

	ur := api.Group("/users")
	ur.Get("/", userCtrl.List, adminOnly)
	ur.Get("/:id", userCtrl.Get, adminOnly)
	ur.Put("/:id", userCtrl.Update, adminOnly)
	ur.Delete("/:id", userCtrl.Delete, adminOnly)
}
