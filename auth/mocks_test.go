package auth_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redwanhasan980/TaskManagement/auth"
)

// stubRepoManager implements auth.RepositoryManager without a database.
// RunInTx invokes the callback with a zero transaction so handlers can be
// exercised against the stubbed users repository.
type stubRepoManager struct {
	users auth.Users
}

func (s *stubRepoManager) Validate() error { return nil }

func (s *stubRepoManager) MustValidate() {}

func (s *stubRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	var tx bun.Tx
	return f(ctx, tx)
}

func (s *stubRepoManager) Users() auth.Users { return s.users }

// stubUsers overrides the repository methods a test cares about. The
// embedded interface panics on anything a handler was not expected to
// call, which is exactly what we want.
type stubUsers struct {
	auth.Users

	getByEmailTx    func(ctx context.Context, email string) (*auth.User, error)
	getByUsernameTx func(ctx context.Context, username string) (*auth.User, error)
	createTx        func(ctx context.Context, record *auth.User) (*auth.User, error)
	consumeVerifyTx func(ctx context.Context, token string) (*auth.User, error)
	setResetTokenTx func(ctx context.Context, id uuid.UUID, token string, expires *time.Time) error
	consumeResetTx  func(ctx context.Context, passwordHash, token string) (*auth.User, error)
}

func (s *stubUsers) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*auth.User, error) {
	return s.getByEmailTx(ctx, email)
}

func (s *stubUsers) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*auth.User, error) {
	return s.getByUsernameTx(ctx, username)
}

func (s *stubUsers) CreateTx(ctx context.Context, tx bun.IDB, record *auth.User, criteria ...repository.InsertCriteria) (*auth.User, error) {
	return s.createTx(ctx, record)
}

func (s *stubUsers) ConsumeVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*auth.User, error) {
	return s.consumeVerifyTx(ctx, token)
}

func (s *stubUsers) SetResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string, expires *time.Time) error {
	return s.setResetTokenTx(ctx, id, token, expires)
}

func (s *stubUsers) ConsumeResetTokenTx(ctx context.Context, tx bun.IDB, passwordHash, token string) (*auth.User, error) {
	return s.consumeResetTx(ctx, passwordHash, token)
}

// stubNotifier records the emails a handler tried to send.
type stubNotifier struct {
	verifications []sentEmail
	resets        []sentEmail
	err           error
}

type sentEmail struct {
	email string
	token string
}

func (s *stubNotifier) SendVerificationEmail(ctx context.Context, email, token string) error {
	s.verifications = append(s.verifications, sentEmail{email: email, token: token})
	return s.err
}

func (s *stubNotifier) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	s.resets = append(s.resets, sentEmail{email: email, token: token})
	return s.err
}

// stubActivitySink collects emitted events.
type stubActivitySink struct {
	events []auth.ActivityEvent
}

func (s *stubActivitySink) Record(ctx context.Context, event auth.ActivityEvent) error {
	s.events = append(s.events, event)
	return nil
}
