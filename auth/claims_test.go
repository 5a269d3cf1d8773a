package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/redwanhasan980/TaskManagement/auth"
)

func TestJWTClaims_Accessors(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	expires := now.Add(2 * time.Hour)

	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-id",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		UID:      "user-id",
		UserRole: "admin",
	}

	assert.Equal(t, "subject-id", claims.Subject())
	assert.Equal(t, "user-id", claims.UserID())
	assert.Equal(t, "admin", claims.Role())
	assert.Equal(t, now, claims.IssuedAt())
	assert.Equal(t, expires, claims.Expires())
}

func TestJWTClaims_UserIDFallsBackToSubject(t *testing.T) {
	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
	}

	assert.Equal(t, "subject-id", claims.UserID())
}

func TestJWTClaims_RoleChecks(t *testing.T) {
	admin := &auth.JWTClaims{UserRole: "admin"}
	member := &auth.JWTClaims{UserRole: "user"}

	assert.True(t, admin.HasRole("admin"))
	assert.False(t, admin.HasRole("user"))
	assert.True(t, admin.IsAtLeast("user"))
	assert.True(t, admin.IsAtLeast("admin"))

	assert.True(t, member.HasRole("user"))
	assert.False(t, member.IsAtLeast("admin"))
}

func TestJWTClaims_ZeroTimes(t *testing.T) {
	claims := &auth.JWTClaims{}

	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())
}
