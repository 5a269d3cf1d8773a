package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/redwanhasan980/TaskManagement/auth"
)

// MockIdentity implements auth.Identity for testing
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

func TestNewTokenService(t *testing.T) {
	signingKey := []byte("test-signing-key")
	tokenExpiration := 24
	issuer := "test-issuer"
	audience := jwt.ClaimStrings{"test-audience"}

	t.Run("creates token service with logger", func(t *testing.T) {
		logger := &MockLogger{}

		service := auth.NewTokenService(signingKey, tokenExpiration, issuer, audience, logger)

		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := auth.NewTokenService(signingKey, tokenExpiration, issuer, audience, nil)

		assert.NotNil(t, service)
	})
}

func TestTokenService_Generate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	tokenExpiration := 24
	issuer := "test-issuer"
	audience := jwt.ClaimStrings{"test-audience"}
	logger := &MockLogger{}

	service := auth.NewTokenService(signingKey, tokenExpiration, issuer, audience, logger)

	t.Run("generates valid JWT token", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Role").Return("admin")

		tokenString, err := service.Generate(identity)

		assert.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		// Parse the token to verify structure
		token, err := jwt.ParseWithClaims(tokenString, &auth.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		})

		assert.NoError(t, err)
		assert.True(t, token.Valid)

		claims, ok := token.Claims.(*auth.JWTClaims)
		assert.True(t, ok)
		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "admin", claims.Role())
		assert.Equal(t, issuer, claims.Issuer)
		assert.Equal(t, audience, claims.Audience)
		assert.NotNil(t, claims.RegisteredClaims.IssuedAt)
		assert.NotNil(t, claims.RegisteredClaims.ExpiresAt)
		assert.NotEmpty(t, claims.RegisteredClaims.ID)

		identity.AssertExpectations(t)
	})

	t.Run("sets correct expiration time", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Role").Return("user")

		beforeGenerate := time.Now()
		tokenString, err := service.Generate(identity)
		afterGenerate := time.Now()

		assert.NoError(t, err)

		token, err := jwt.ParseWithClaims(tokenString, &auth.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		})

		assert.NoError(t, err)
		claims := token.Claims.(*auth.JWTClaims)

		expectedExpiry := beforeGenerate.Add(time.Duration(tokenExpiration) * time.Hour)
		actualExpiry := claims.RegisteredClaims.ExpiresAt.Time

		// Allow for a small margin of difference due to timing
		assert.True(t, actualExpiry.After(expectedExpiry.Add(-time.Second)))
		assert.True(t, actualExpiry.Before(afterGenerate.Add(time.Duration(tokenExpiration)*time.Hour+time.Second)))

		identity.AssertExpectations(t)
	})

	t.Run("assigns a unique token ID per mint", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Role").Return("user")

		first, err := service.Generate(identity)
		assert.NoError(t, err)

		second, err := service.Generate(identity)
		assert.NoError(t, err)

		assert.NotEqual(t, first, second)
	})
}

func TestTokenService_Validate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	tokenExpiration := 24
	issuer := "test-issuer"
	audience := jwt.ClaimStrings{"test-audience"}
	logger := &MockLogger{}

	service := auth.NewTokenService(signingKey, tokenExpiration, issuer, audience, logger)

	t.Run("validates generated token", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Role").Return("admin")

		tokenString, err := service.Generate(identity)
		assert.NoError(t, err)

		claims, err := service.Validate(tokenString)

		assert.NoError(t, err)
		assert.NotNil(t, claims)
		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "admin", claims.Role())

		identity.AssertExpectations(t)
	})

	t.Run("returns error for expired token", func(t *testing.T) {
		now := time.Now()
		expiredClaims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Subject:   "user-expired",
				Audience:  audience,
				IssuedAt:  jwt.NewNumericDate(now.Add(-25 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Hour)),
			},
			UID:      "user-expired",
			UserRole: "user",
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims)
		tokenString, err := token.SignedString(signingKey)
		assert.NoError(t, err)

		claims, err := service.Validate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("returns error for malformed token", func(t *testing.T) {
		malformedToken := "not.a.valid.jwt.token"

		claims, err := service.Validate(malformedToken)

		assert.Error(t, err)
		assert.Nil(t, claims)
		// Should be wrapped as ErrTokenMalformed
		assert.Contains(t, err.Error(), auth.ErrTokenMalformed.Message)
	})

	t.Run("returns error for token with wrong signing key", func(t *testing.T) {
		wrongKey := []byte("wrong-signing-key")
		now := time.Now()
		claims := &auth.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Subject:   "user-123",
				Audience:  audience,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			},
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		tokenString, err := token.SignedString(wrongKey)
		assert.NoError(t, err)

		validatedClaims, err := service.Validate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, validatedClaims)
	})

	t.Run("returns error for token from wrong issuer", func(t *testing.T) {
		other := auth.NewTokenService(signingKey, tokenExpiration, "other-issuer", audience, logger)

		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Role").Return("user")

		tokenString, err := other.Generate(identity)
		assert.NoError(t, err)

		claims, err := service.Validate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestTokenService_Integration(t *testing.T) {
	signingKey := []byte("integration-test-key")
	tokenExpiration := 1
	issuer := "integration-issuer"
	audience := jwt.ClaimStrings{"integration-audience"}
	logger := &MockLogger{}

	service := auth.NewTokenService(signingKey, tokenExpiration, issuer, audience, logger)

	t.Run("full generate and validate cycle", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("integration-user")
		identity.On("Role").Return("admin")

		tokenString, err := service.Generate(identity)
		assert.NoError(t, err)
		assert.NotEmpty(t, tokenString)

		claims, err := service.Validate(tokenString)
		assert.NoError(t, err)
		assert.NotNil(t, claims)

		assert.Equal(t, identity.ID(), claims.Subject())
		assert.Equal(t, identity.ID(), claims.UserID())
		assert.Equal(t, identity.Role(), claims.Role())

		assert.True(t, claims.HasRole("admin"))
		assert.False(t, claims.HasRole("user"))
		assert.True(t, claims.IsAtLeast("user"))
		assert.True(t, claims.IsAtLeast("admin"))

		identity.AssertExpectations(t)
	})
}
