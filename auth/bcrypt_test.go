package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redwanhasan980/TaskManagement/auth"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "Valid password",
			password: "securePassword123!",
			wantErr:  false,
		},
		{
			name:     "Empty password",
			password: "",
			wantErr:  true, // bcrypt can hash empty strings!
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := auth.HashPassword(tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, hash)

			err = auth.ComparePasswordAndHash(tt.password, hash)
			assert.NoError(t, err)
		})
	}
}

func TestComparePasswordAndHash(t *testing.T) {
	password := "testPassword123!"
	hash, err := auth.HashPassword(password)
	assert.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		assert.NoError(t, auth.ComparePasswordAndHash(password, hash))
	})

	t.Run("wrong password collapses to invalid credentials", func(t *testing.T) {
		err := auth.ComparePasswordAndHash("not-the-password", hash)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("garbage hash", func(t *testing.T) {
		err := auth.ComparePasswordAndHash(password, "not-a-bcrypt-hash")
		assert.Error(t, err)
	})
}
