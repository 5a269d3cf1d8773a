package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ConsumeVerificationTokenSQL flips the account to verified and burns the
// token in one statement. The expiry predicate makes expired and already
// consumed tokens indistinguishable from unknown ones.
var ConsumeVerificationTokenSQL = `UPDATE "users" AS "usr"
SET
	"email_verified" = TRUE,
	"verification_token" = NULL,
	"verification_token_expires" = NULL
WHERE
	"usr"."deleted_at" IS NULL
AND "usr"."verification_token" = ?
AND "usr"."verification_token_expires" > ?
RETURNING *;`

// ConsumeResetTokenSQL applies the new password hash and clears the reset
// token atomically. Concurrent submissions of the same token race on this
// statement and exactly one wins.
var ConsumeResetTokenSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"reset_token" = NULL,
	"reset_token_expires" = NULL
WHERE
	"usr"."deleted_at" IS NULL
AND "usr"."reset_token" = ?
AND "usr"."reset_token_expires" > ?
RETURNING *;`

type Users interface {
	repository.Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)

	Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error)

	ConsumeVerificationToken(ctx context.Context, token string) (*User, error)
	ConsumeVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error)

	SetResetToken(ctx context.Context, id uuid.UUID, token string, expires *time.Time) error
	SetResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string, expires *time.Time) error
	ConsumeResetToken(ctx context.Context, passwordHash, token string) (*User, error)
	ConsumeResetTokenTx(ctx context.Context, tx bun.IDB, passwordHash, token string) (*User, error)

	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
	TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error

	Remove(ctx context.Context, record *User) error
	ListAll(ctx context.Context) ([]*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

// GetByIdentifier resolves a user by id or email, whichever the
// identifier looks like.
func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

func (a *users) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	trimmed := strings.TrimSpace(identifier)

	if _, err := uuid.Parse(trimmed); err == nil {
		if record, err := a.getByColumnTx(ctx, tx, "id", trimmed); err == nil {
			return record, nil
		} else if !repository.IsRecordNotFound(err) {
			return nil, err
		}
	}

	return a.getByColumnTx(ctx, tx, "email", trimmed)
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getByColumnTx(ctx, tx, "email", strings.TrimSpace(email))
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	return a.getByColumnTx(ctx, tx, "username", strings.TrimSpace(username))
}

func (a *users) getByColumnTx(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.InsertCriteria) (*User, error) {
	prepareUserDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *users) ConsumeVerificationToken(ctx context.Context, token string) (*User, error) {
	return a.ConsumeVerificationTokenTx(ctx, a.db, token)
}

func (a *users) ConsumeVerificationTokenTx(ctx context.Context, tx bun.IDB, token string) (*User, error) {
	res, err := a.Repository.RawTx(ctx, tx, ConsumeVerificationTokenSQL, token, time.Now())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"token": token,
			})
	}

	return res[0], nil
}

func (a *users) SetResetToken(ctx context.Context, id uuid.UUID, token string, expires *time.Time) error {
	return a.SetResetTokenTx(ctx, a.db, id, token, expires)
}

func (a *users) SetResetTokenTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string, expires *time.Time) error {
	// NOTE: raw update, the ORM skips zero value fields on partial updates.
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"reset_token" = ?,
			"reset_token_expires" = ?
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, token, expires, id).Exec(ctx)

	return err
}

func (a *users) ConsumeResetToken(ctx context.Context, passwordHash, token string) (*User, error) {
	return a.ConsumeResetTokenTx(ctx, a.db, passwordHash, token)
}

func (a *users) ConsumeResetTokenTx(ctx context.Context, tx bun.IDB, passwordHash, token string) (*User, error) {
	res, err := a.Repository.RawTx(ctx, tx, ConsumeResetTokenSQL, passwordHash, token, time.Now())
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"token": token,
			})
	}

	return res[0], nil
}

func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	return a.TrackSuccessfulLoginTx(ctx, a.db, user)
}

func (a *users) TrackSuccessfulLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	loggedInAt := time.Now()
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"loggedin_at" = ?,
			"login_attempts" = 0
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, loggedInAt, user.ID).Exec(ctx)

	return err
}

func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	return a.TrackAttemptedLoginTx(ctx, a.db, user)
}

func (a *users) TrackAttemptedLoginTx(ctx context.Context, tx bun.IDB, user *User) error {
	_, err := tx.NewRaw(`
		UPDATE "users" AS "usr"
		SET
			"login_attempts" = "login_attempts" + 1
		WHERE
			("usr".id = ?)
			AND "usr"."deleted_at" IS NULL;
	`, user.ID).Exec(ctx)

	return err
}

// Remove soft deletes the account. The deleted_at tag turns this into
// an update, lookups already exclude soft deleted rows.
func (a *users) Remove(ctx context.Context, record *User) error {
	_, err := a.db.NewDelete().
		Model(record).
		WherePK().
		Exec(ctx)
	return err
}

func (a *users) ListAll(ctx context.Context) ([]*User, error) {
	records := []*User{}
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.EnsureRole()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
