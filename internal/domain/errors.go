package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	// ErrEmailNotVerified blocks login until the verification OTP is consumed.
	ErrEmailNotVerified  = errors.New("email not verified")
	ErrAlreadyVerified   = errors.New("email already verified")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidInput      = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")

	// One-time-code outcomes. Distinguished internally; the HTTP adapter
	// collapses all four to one generic "invalid or expired code" message.
	ErrNoCodePending       = errors.New("no code pending")
	ErrCodePurposeMismatch = errors.New("code purpose mismatch")
	ErrCodeExpired         = errors.New("code expired")
	ErrCodeMismatch        = errors.New("code mismatch")

	// ErrTokenInvalid is the single fail-closed outcome for expired, tampered
	// and malformed bearer tokens alike, so the verifier never acts as an oracle.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrResetTokenInvalid covers missing, expired and already-used reset tokens.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")

	// ErrDecryptFailed means stored ciphertext could not be opened.
	// Callers treat it as "secret unavailable", never as a fatal condition.
	ErrDecryptFailed = errors.New("decryption failed")
)
