package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	"github.com/redwanhasan980/TaskManagement/auth"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"postgres message", errors.New(`duplicate key value violates unique constraint "users_email_key"`), true},
		{"unrelated error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.IsUniqueViolation(tt.err))
		})
	}
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.True(t, auth.IsTokenExpiredError(auth.ErrTokenExpired))
	assert.True(t, auth.IsTokenExpiredError(errors.New("token is expired by 5m")))
	assert.False(t, auth.IsTokenExpiredError(auth.ErrTokenMalformed))
	assert.False(t, auth.IsTokenExpiredError(nil))
}

func TestIsMalformedError(t *testing.T) {
	assert.True(t, auth.IsMalformedError(errors.New("token is malformed: could not base64 decode")))
	assert.True(t, auth.IsMalformedError(errors.New("missing or malformed JWT")))
	assert.False(t, auth.IsMalformedError(errors.New("token is expired")))
	assert.False(t, auth.IsMalformedError(nil))
}

func TestErrorShapes(t *testing.T) {
	// lifecycle tokens fail with one indistinguishable error
	assert.Equal(t, goerrors.CategoryValidation, auth.ErrLifecycleTokenInvalid.Category)
	assert.Equal(t, "Invalid or expired token", auth.ErrLifecycleTokenInvalid.Message)

	// enumeration guard: credentials errors never name the missing part
	assert.Equal(t, goerrors.CategoryAuth, auth.ErrInvalidCredentials.Category)
	assert.Equal(t, "Invalid email or password", auth.ErrInvalidCredentials.Message)

	assert.Equal(t, goerrors.CategoryConflict, auth.ErrEmailTaken.Category)
	assert.Equal(t, goerrors.CategoryAuthz, auth.ErrRoleEscalation.Category)
}
