package auth

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	TextCodeEmailNotVerified     = "EMAIL_NOT_VERIFIED"
	TextCodeTokenExpired         = "TOKEN_EXPIRED"
	TextCodeTokenMalformed       = "TOKEN_MALFORMED"
	TextCodeLifecycleToken       = "INVALID_OR_EXPIRED_TOKEN"
	TextCodeEmailTaken           = "EMAIL_TAKEN"
	TextCodeUsernameTaken        = "USERNAME_TAKEN"
	TextCodeRoleEscalation       = "ROLE_ESCALATION_DENIED"
	TextCodeInvalidRole          = "INVALID_ROLE"
)

// ErrInvalidCredentials collapses unknown accounts and wrong passwords
// into a single response so callers cannot probe for registered emails.
var ErrInvalidCredentials = errors.New("Invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrEmailNotVerified is returned when the account exists but has not
// completed email verification.
var ErrEmailNotVerified = errors.New("Please verify your email before logging in", errors.CategoryAuthz).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(errors.CodeForbidden)

// ErrLifecycleTokenInvalid covers unknown, expired, and already consumed
// verification or reset tokens. They are indistinguishable on purpose.
var ErrLifecycleTokenInvalid = errors.New("Invalid or expired token", errors.CategoryValidation).
	WithTextCode(TextCodeLifecycleToken).
	WithCode(errors.CodeBadRequest)

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("User with this email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(errors.CodeConflict)

// ErrUsernameTaken is returned when registering a username that already exists.
var ErrUsernameTaken = errors.New("Username already taken", errors.CategoryConflict).
	WithTextCode(TextCodeUsernameTaken).
	WithCode(errors.CodeConflict)

// ErrRoleEscalation is returned when a non-admin caller requests an
// admin account at registration.
var ErrRoleEscalation = errors.New("Only administrators can create admin accounts", errors.CategoryAuthz).
	WithTextCode(TextCodeRoleEscalation).
	WithCode(errors.CodeForbidden)

// ErrTokenExpired flags expired session JWTs.
var ErrTokenExpired = errors.New("authentication token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed flags session JWTs that fail parsing or signature checks.
var ErrTokenMalformed = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = stderrors.New("identity not found")

// ErrUnableToFindSession is the error when our request has no token
var ErrUnableToFindSession = stderrors.New("unable to find session")

// ErrUnableToDecodeSession unable to decode JWT from the request
var ErrUnableToDecodeSession = stderrors.New("unable to decode session")

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = stderrors.New("unable to map claims")

// ErrUnableToParseData parse error
var ErrUnableToParseData = stderrors.New("unable to parse data")

// ErrNoEmptyString rejects empty password input before hashing
var ErrNoEmptyString = stderrors.New("password must not be empty")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsUniqueViolation reports whether err looks like a unique constraint
// failure. The insert race on duplicate registrations is arbitrated by
// the database, so losers must map onto the same conflict errors as the
// pre-insert checks.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique failed") ||
		strings.Contains(msg, "duplicate key")
}
