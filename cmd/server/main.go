package main

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/migrate"

	"github.com/redwanhasan980/TaskManagement/auth"
	"github.com/redwanhasan980/TaskManagement/config"
	"github.com/redwanhasan980/TaskManagement/mailer"
	"github.com/redwanhasan980/TaskManagement/rest"
	"github.com/redwanhasan980/TaskManagement/tasks"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("taskmanagement"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := &config.App{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg, lgr.GetLogger("db"))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	taskRepo := tasks.NewTasksRepository(db)

	notifier := mailer.NewNotifier(newSender(cfg, lgr.GetLogger("mailer")), cfg.BaseURL)

	activity := auth.ActivitySinkFunc(func(ctx context.Context, event auth.ActivityEvent) error {
		lgr.GetLogger("activity").Info(string(event.EventType),
			"actor", event.Actor.ID,
			"user_id", event.UserID,
		)
		return nil
	})

	provider := auth.NewUserProvider(userStoreAdapter{repo.Users()}).
		WithLogger(lgr.GetLogger("auth:provider"))

	auther := auth.NewAuthenticator(provider, cfg.Auth).
		WithLogger(lgr.GetLogger("auth")).
		WithActivitySink(activity)

	if err := bootstrapAdmin(ctx, repo, lgr.GetLogger("bootstrap")); err != nil {
		panic(err)
	}

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: !cfg.IsProduction(),
			StrictRouting:     false,
		}))
	})

	srv.Router().Use(rest.RequestLogger(lgr.GetLogger("http")))

	rest.RegisterRoutes(srv.Router(), rest.Deps{
		Config:   cfg.Auth,
		Repo:     repo,
		Tasks:    taskRepo,
		Auther:   auther,
		Tokens:   auther.TokenService(),
		Notifier: notifier,
		Activity: activity,
		Logger:   lgr.GetLogger("rest"),
	})

	lgr.GetLogger("server").Info("listening", "addr", cfg.ServerAddr)

	srv.Serve(cfg.ServerAddr)

	WaitExitSignal()
}

func openDatabase(ctx context.Context, cfg *config.App, logger glog.Logger) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	migrations := migrate.NewMigrations()
	for _, fsys := range []fs.FS{auth.GetMigrationsFS(), tasks.GetMigrationsFS()} {
		sub, err := fs.Sub(fsys, "data/sql/migrations")
		if err != nil {
			return nil, err
		}
		if err := migrations.Discover(sub); err != nil {
			return nil, err
		}
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, err
	}

	if group.IsZero() {
		logger.Debug("database schema up to date")
	} else {
		logger.Info("applied migrations", "group", group.String())
	}

	return db, nil
}

func newSender(cfg *config.App, logger glog.Logger) mailer.Sender {
	if cfg.Mailer.UsesPostmark() {
		sender, err := mailer.NewPostmarkSender(cfg.Mailer)
		if err != nil {
			panic(err)
		}
		logger.Info("using postmark sender", "from", cfg.Mailer.SenderEmail)
		return sender
	}

	logger.Info("using dev sender", "dir", cfg.Mailer.DevOutputDir)
	return mailer.NewDevSender(cfg.Mailer.DevOutputDir)
}

// bootstrapAdmin seeds the first administrator account from the
// environment so a fresh install is manageable. Runs are idempotent.
func bootstrapAdmin(ctx context.Context, repo auth.RepositoryManager, logger glog.Logger) error {
	email := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	if _, err := repo.Users().GetByEmail(ctx, email); err == nil {
		return nil
	} else if !repository.IsRecordNotFound(err) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &auth.User{
		Username:      "admin",
		Email:         email,
		PasswordHash:  hash,
		Role:          auth.RoleAdmin,
		EmailVerified: true,
	}

	if _, err := repo.Users().Create(ctx, admin); err != nil {
		return err
	}

	logger.Info("seeded bootstrap admin", "email", email)
	return nil
}

// userStoreAdapter narrows the users repository to the surface the
// identity provider needs.
type userStoreAdapter struct {
	users auth.Users
}

func (a userStoreAdapter) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return a.users.GetByEmail(ctx, email)
}

func (a userStoreAdapter) GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	return a.users.GetByIdentifier(ctx, identifier)
}

func (a userStoreAdapter) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	return a.users.TrackAttemptedLogin(ctx, user)
}

func (a userStoreAdapter) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	return a.users.TrackSuccessfulLogin(ctx, user)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
