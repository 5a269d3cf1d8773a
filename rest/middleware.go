package rest

import (
	"strings"
	"time"

	"github.com/goliatone/go-router"

	"github.com/redwanhasan980/TaskManagement/auth"
	"github.com/redwanhasan980/TaskManagement/middleware/jwtware"
)

// tokenValidatorAdapter bridges the auth token service into the JWT
// middleware without an import cycle between the two packages.
type tokenValidatorAdapter struct {
	svc auth.TokenService
}

func NewTokenValidator(svc auth.TokenService) jwtware.TokenValidator {
	return tokenValidatorAdapter{svc: svc}
}

func (a tokenValidatorAdapter) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := a.svc.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Protected requires a valid bearer token on the route.
func Protected(cfg auth.Config, validator jwtware.TokenValidator, logger Logger) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		TokenValidator: validator,
		ErrorHandler:   authErrorHandler(logger),
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:  cfg.GetAuthScheme(),
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
	})
}

// AdminOnly requires a valid bearer token carrying the admin role.
func AdminOnly(cfg auth.Config, validator jwtware.TokenValidator, logger Logger) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		TokenValidator: validator,
		ErrorHandler:   authErrorHandler(logger),
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:   cfg.GetAuthScheme(),
		ContextKey:   cfg.GetContextKey(),
		TokenLookup:  cfg.GetTokenLookup(),
		RequiredRole: string(auth.RoleAdmin),
	})
}

// OptionalAuth parses a bearer token when present but lets anonymous
// requests through. Registration uses it to spot admin callers.
func OptionalAuth(cfg auth.Config, validator jwtware.TokenValidator) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		TokenValidator: validator,
		ErrorHandler: func(ctx router.Context, err error) error {
			return ctx.Next()
		},
		SigningKey: jwtware.SigningKey{
			Key:    []byte(cfg.GetSigningKey()),
			JWTAlg: cfg.GetSigningMethod(),
		},
		AuthScheme:  cfg.GetAuthScheme(),
		ContextKey:  cfg.GetContextKey(),
		TokenLookup: cfg.GetTokenLookup(),
	})
}

func authErrorHandler(logger Logger) router.ErrorHandler {
	return func(ctx router.Context, err error) error {
		switch {
		case auth.IsTokenExpiredError(err):
			return respondError(ctx, logger, auth.ErrTokenExpired)
		case auth.IsMalformedError(err):
			return respondError(ctx, logger, auth.ErrTokenMalformed)
		case isRoleDenied(err):
			return ctx.JSON(router.StatusForbidden, envelope{
				Success: false,
				Message: "Admin access required",
			})
		default:
			return ctx.JSON(router.StatusUnauthorized, envelope{
				Success: false,
				Message: "Invalid or expired token",
			})
		}
	}
}

func isRoleDenied(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "access denied")
}

// RequestLogger emits one line per request with method, path, and how
// long the handler took.
func RequestLogger(logger Logger) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			start := time.Now()
			err := ctx.Next()
			logger.Info("request",
				"method", ctx.Method(),
				"path", ctx.OriginalURL(),
				"duration", time.Since(start).String(),
				"error", err != nil,
			)
			return err
		}
	}
}
