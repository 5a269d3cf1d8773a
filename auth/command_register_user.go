package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	UseHashid bool

	// ActorRole carries the role of the authenticated caller, empty for
	// anonymous registrations. Only admins may mint admin accounts.
	ActorRole string

	OnResponse func(resp *RegisterUserResponse)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserResponse struct {
	User              *User
	VerificationToken string
}

type RegisterUserHandler struct {
	repo     RepositoryManager
	notifier Notifier
	activity ActivitySink
	logger   Logger
}

// NewRegisterUserHandler creates a handler with sane defaults.
func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{
		repo:     repo,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithNotifier sets the mailer used for verification emails.
func (h *RegisterUserHandler) WithNotifier(n Notifier) *RegisterUserHandler {
	h.notifier = n
	return h
}

// WithActivitySink sets the sink used to emit registration events.
func (h *RegisterUserHandler) WithActivitySink(sink ActivitySink) *RegisterUserHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	role, err := resolveRequestedRole(event.Role, event.ActorRole)
	if err != nil {
		return err
	}

	user := &User{}
	token := ""

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Users().GetByEmailTx(ctx, tx, event.Email); err == nil {
			return ErrEmailTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
		}

		if _, err := h.repo.Users().GetByUsernameTx(ctx, tx, event.Username); err == nil {
			return ErrUsernameTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username availability")
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		if token, err = NewLifecycleToken(); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint verification token")
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.Username = getUsername(event.Username, event.Email)
		user.Role = role
		user.EmailVerified = false
		user.VerificationToken = token
		user.VerificationTokenExpires = LifecycleTokenExpiry(VerificationTokenTTL)

		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return mapRegisterConflict(err)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	h.sendVerification(ctx, user, token)
	h.recordActivity(ctx, user)

	if event.OnResponse != nil {
		event.OnResponse(&RegisterUserResponse{
			User:              user,
			VerificationToken: token,
		})
	}

	return nil
}

// sendVerification delivers the verification email. Delivery is best
// effort, the outcome never changes the registration result.
func (h *RegisterUserHandler) sendVerification(ctx context.Context, user *User, token string) {
	if h.notifier == nil {
		return
	}

	if err := h.notifier.SendVerificationEmail(ctx, user.Email, token); err != nil {
		h.logger.Warn("verification email delivery failed", "email", user.Email, "error", err)
		return
	}

	h.logger.Info("verification email sent", "email", user.Email)
}

func (h *RegisterUserHandler) recordActivity(ctx context.Context, user *User) {
	if user == nil {
		return
	}

	event := ActivityEvent{
		EventType: ActivityEventUserRegistered,
		Actor: ActorRef{
			ID:   user.ID.String(),
			Type: "user",
		},
		UserID: user.ID.String(),
		Metadata: map[string]any{
			"role": user.Role,
		},
		OccurredAt: time.Now(),
	}

	if err := normalizeActivitySink(h.activity).Record(ctx, event); err != nil {
		h.logger.Warn("activity sink error during registration: %v", err)
	}
}

// resolveRequestedRole validates the requested role and enforces the
// escalation guard before any persistence work happens.
func resolveRequestedRole(requested, actorRole string) (UserRole, error) {
	if requested == "" {
		return RoleUser, nil
	}

	role, ok := ParseRole(requested)
	if !ok {
		return "", goerrors.New("Role must be either \"admin\" or \"user\"", goerrors.CategoryBadInput).
			WithTextCode(TextCodeInvalidRole).
			WithCode(goerrors.CodeBadRequest)
	}

	if role == RoleAdmin && actorRole != string(RoleAdmin) {
		return "", ErrRoleEscalation
	}

	return role, nil
}

// mapRegisterConflict folds unique constraint races into the same
// conflict errors the pre-insert checks produce.
func mapRegisterConflict(err error) error {
	if !IsUniqueViolation(err) {
		return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
	}

	if strings.Contains(strings.ToLower(err.Error()), "username") {
		return ErrUsernameTaken
	}

	return ErrEmailTaken
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}
