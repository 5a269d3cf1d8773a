package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole string

const (
	// RoleUser is a regular account (i.e. manage own tasks)
	RoleUser UserRole = "user"
	// RoleAdmin is an admin account (i.e. manage all users and tasks)
	RoleAdmin UserRole = "admin"
)

// User is the account model. Password and lifecycle token material
// never leave the persistence layer through JSON.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Role          UserRole  `bun:"role,notnull" json:"role,omitempty"`
	Username      string    `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string    `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`

	EmailVerified            bool       `bun:"email_verified" json:"email_verified"`
	VerificationToken        string     `bun:"verification_token,nullzero" json:"-"`
	VerificationTokenExpires *time.Time `bun:"verification_token_expires,nullzero" json:"-"`
	ResetToken               string     `bun:"reset_token,nullzero" json:"-"`
	ResetTokenExpires        *time.Time `bun:"reset_token_expires,nullzero" json:"-"`

	LoginAttempts int        `bun:"login_attempts" json:"-"`
	LoggedInAt    *time.Time `bun:"loggedin_at" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// PublicUser is the projection we expose through the API.
type PublicUser struct {
	ID            uuid.UUID  `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Role          UserRole   `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Public maps the account to its API projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// EnsureRole normalizes an empty role to the default member role.
func (u *User) EnsureRole() {
	if u.Role == "" {
		u.Role = RoleUser
	}
}
