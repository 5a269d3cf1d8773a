package rest

import (
	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"

	"github.com/redwanhasan980/TaskManagement/auth"
)

// AuthController exposes the account lifecycle endpoints.
type AuthController struct {
	repo       auth.RepositoryManager
	auther     auth.Authenticator
	register   *auth.RegisterUserHandler
	verify     *auth.VerifyEmailHandler
	resetInit  *auth.InitializePasswordResetHandler
	resetFinal *auth.FinalizePasswordResetHandler
	contextKey string
	logger     Logger
}

func NewAuthController(repo auth.RepositoryManager, auther auth.Authenticator, contextKey string) *AuthController {
	return &AuthController{
		repo:       repo,
		auther:     auther,
		register:   auth.NewRegisterUserHandler(repo),
		verify:     auth.NewVerifyEmailHandler(repo),
		resetInit:  auth.NewInitializePasswordResetHandler(repo),
		resetFinal: auth.NewFinalizePasswordResetHandler(repo),
		contextKey: contextKey,
		logger:     noopLogger{},
	}
}

func (c *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (c *AuthController) WithNotifier(n auth.Notifier) *AuthController {
	c.register.WithNotifier(n)
	c.resetInit.WithNotifier(n)
	return c
}

func (c *AuthController) WithActivitySink(sink auth.ActivitySink) *AuthController {
	c.register.WithActivitySink(sink)
	c.verify.WithActivitySink(sink)
	c.resetInit.WithActivitySink(sink)
	c.resetFinal.WithActivitySink(sink)
	return c
}

// Register creates a disabled account and emails a verification link.
// Only authenticated admins may request an admin account.
func (c *AuthController) Register(ctx router.Context) error {
	payload := new(RegisterPayload)
	if err := ctx.Bind(payload); err != nil {
		return respondError(ctx, c.logger, badBody(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(ctx, c.logger, err)
	}

	actorRole := ""
	if claims, ok := auth.GetRouterClaims(ctx, c.contextKey); ok {
		actorRole = claims.Role()
	}

	var created *auth.User
	err := c.register.Execute(ctx.Context(), auth.RegisterUserMessage{
		Username:  payload.Username,
		Email:     payload.Email,
		Password:  payload.Password,
		Role:      payload.Role,
		ActorRole: actorRole,
		OnResponse: func(resp *auth.RegisterUserResponse) {
			created = resp.User
		},
	})
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return ctx.JSON(router.StatusCreated, envelope{
		Success: true,
		Message: "Registration successful. Please check your email to verify your account.",
		Data: map[string]any{
			"id":    created.ID,
			"email": created.Email,
		},
	})
}

// VerifyEmail consumes the verification token from the query string.
func (c *AuthController) VerifyEmail(ctx router.Context) error {
	token := ctx.Query("token", "")
	if len(token) < auth.MinLifecycleTokenLength {
		return respondError(ctx, c.logger, auth.ErrLifecycleTokenInvalid)
	}

	err := c.verify.Execute(ctx.Context(), auth.VerifyEmailMessage{Token: token})
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondMessage(ctx, router.StatusOK, "Email verified successfully. You can now log in.")
}

// Login exchanges credentials for a session token.
func (c *AuthController) Login(ctx router.Context) error {
	payload := new(LoginPayload)
	if err := ctx.Bind(payload); err != nil {
		return respondError(ctx, c.logger, badBody(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(ctx, c.logger, err)
	}

	token, err := c.auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	user, err := c.repo.Users().GetByEmail(ctx.Context(), payload.Email)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return ctx.JSON(router.StatusOK, envelope{
		Success: true,
		Message: "Login successful",
		Data: map[string]any{
			"token": token,
			"user":  user.Public(),
		},
	})
}

// ForgotPassword always answers the same way so callers cannot probe
// which emails have accounts.
func (c *AuthController) ForgotPassword(ctx router.Context) error {
	payload := new(ForgotPasswordPayload)
	if err := ctx.Bind(payload); err != nil {
		return respondError(ctx, c.logger, badBody(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(ctx, c.logger, err)
	}

	err := c.resetInit.Execute(ctx.Context(), auth.InitializePasswordResetMessage{
		Email: payload.Email,
	})
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondMessage(ctx, router.StatusOK,
		"If that email address is in our system, we sent a password reset link")
}

// ResetPassword consumes the reset token and applies the new password.
func (c *AuthController) ResetPassword(ctx router.Context) error {
	payload := new(ResetPasswordPayload)
	if err := ctx.Bind(payload); err != nil {
		return respondError(ctx, c.logger, badBody(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(ctx, c.logger, err)
	}

	err := c.resetFinal.Execute(ctx.Context(), auth.FinalizePasswordResetMessage{
		Token:    payload.Token,
		Password: payload.Password,
	})
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondMessage(ctx, router.StatusOK,
		"Password reset successful. You can now log in with your new password.")
}

// Profile returns the authenticated user's public record.
func (c *AuthController) Profile(ctx router.Context) error {
	claims, ok := auth.GetRouterClaims(ctx, c.contextKey)
	if !ok {
		return respondError(ctx, c.logger, auth.ErrUnableToFindSession)
	}

	user, err := c.repo.Users().GetByID(ctx.Context(), claims.UserID())
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return respondData(ctx, router.StatusOK, map[string]any{
		"user": user.Public(),
	})
}

// UpdateProfile lets the authenticated user change username or email.
func (c *AuthController) UpdateProfile(ctx router.Context) error {
	claims, ok := auth.GetRouterClaims(ctx, c.contextKey)
	if !ok {
		return respondError(ctx, c.logger, auth.ErrUnableToFindSession)
	}

	payload := new(UpdateProfilePayload)
	if err := ctx.Bind(payload); err != nil {
		return respondError(ctx, c.logger, badBody(err))
	}

	if err := payload.Validate(); err != nil {
		return respondError(ctx, c.logger, err)
	}

	user, err := c.repo.Users().GetByID(ctx.Context(), claims.UserID())
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	if payload.Username != "" && payload.Username != user.Username {
		if err := c.ensureUsernameFree(ctx, payload.Username, user); err != nil {
			return respondError(ctx, c.logger, err)
		}
		user.Username = payload.Username
	}

	if payload.Email != "" && payload.Email != user.Email {
		if err := c.ensureEmailFree(ctx, payload.Email, user); err != nil {
			return respondError(ctx, c.logger, err)
		}
		user.Email = payload.Email
	}

	updated, err := c.repo.Users().Update(ctx.Context(), user)
	if err != nil {
		return respondError(ctx, c.logger, err)
	}

	return ctx.JSON(router.StatusOK, envelope{
		Success: true,
		Message: "Profile updated successfully",
		Data: map[string]any{
			"user": updated.Public(),
		},
	})
}

// Logout acknowledges the request. Sessions are stateless JWTs, the
// client discards the token.
func (c *AuthController) Logout(ctx router.Context) error {
	return respondMessage(ctx, router.StatusOK, "Logged out successfully")
}

func (c *AuthController) ensureUsernameFree(ctx router.Context, username string, self *auth.User) error {
	existing, err := c.repo.Users().GetByUsername(ctx.Context(), username)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != self.ID {
		return auth.ErrUsernameTaken
	}
	return nil
}

func (c *AuthController) ensureEmailFree(ctx router.Context, email string, self *auth.User) error {
	existing, err := c.repo.Users().GetByEmail(ctx.Context(), email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != self.ID {
		return auth.ErrEmailTaken
	}
	return nil
}

func badBody(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "Failed to parse request body").
		WithCode(goerrors.CodeBadRequest)
}
