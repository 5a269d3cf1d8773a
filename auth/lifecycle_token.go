package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

const (
	// LifecycleTokenBytes is the random payload of a lifecycle token.
	LifecycleTokenBytes = 16
	// MinLifecycleTokenLength is the shortest token we accept on input.
	// A well formed token is the hex encoding of LifecycleTokenBytes.
	MinLifecycleTokenLength = LifecycleTokenBytes * 2
)

const (
	// VerificationTokenTTL is how long an email verification link is honored.
	VerificationTokenTTL = 24 * time.Hour
	// ResetTokenTTL is how long a password reset link is honored.
	ResetTokenTTL = time.Hour
)

// NewLifecycleToken mints an opaque single use token for email
// verification and password reset links. The token carries no claims,
// expiry lives next to it in the users table and is enforced at lookup.
func NewLifecycleToken() (string, error) {
	buf := make([]byte, LifecycleTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// LifecycleTokenExpiry returns the expiry timestamp for a token minted now.
func LifecycleTokenExpiry(ttl time.Duration) *time.Time {
	t := time.Now().Add(ttl)
	return &t
}
