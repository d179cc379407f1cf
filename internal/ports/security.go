package ports

import (
	"time"

	"github.com/google/uuid"
)

// PasswordHasher abstracts credential hashing.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash string, plain string) error
}

// AuthClaims is the validated identity extracted from an access token.
// Email and Username are denormalized into the token so profile reads do
// not require a user lookup on every request.
type AuthClaims struct {
	UserID    uuid.UUID
	Email     string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenSigner issues and validates access tokens.
// ParseAndValidate returns domain.ErrTokenInvalid for every failure mode so
// callers cannot distinguish expiry from tampering.
type TokenSigner interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(token string) (AuthClaims, error)
}

// SecretCipher encrypts user secrets at rest. Implementations must treat the
// empty string as a passthrough in both directions.
type SecretCipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(sealed string) (string, error)
}
