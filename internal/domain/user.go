package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the canonical MailAgent account aggregate.
// It carries verification and one-time-code state directly so the OTP and
// reset flows stay single-row read-modify-write.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     *string
	PasswordHash string
	IsActive     bool
	IsVerified   bool

	// Single outstanding OTP per account; issuing a new one overwrites.
	OTPCode    *string
	OTPExpires *time.Time
	OTPPurpose *OTPPurpose

	// Pending email-change target, applied when the email_change OTP is consumed.
	PendingEmail *string

	ResetToken        *string
	ResetTokenExpires *time.Time

	ProfilePicture *string
	Language       string
	DefaultTone    string
	AILearning     bool
	SaveHistory    bool

	LastLogin *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	DefaultLanguage = "en"
	DefaultTone     = "professional"
)

// DisplayName returns the username when set, otherwise the email local part.
func (u User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	for i, r := range u.Email {
		if r == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

// EnvironmentVariable is a user-owned secret stored encrypted at rest.
// EncryptedValue is opaque to everything except the secret cipher.
type EnvironmentVariable struct {
	ID             int64
	UserID         uuid.UUID
	Key            string
	EncryptedValue string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EmailConfig is a user's outbound SMTP identity; the password is encrypted.
type EmailConfig struct {
	ID                int64
	UserID            uuid.UUID
	Email             string
	EncryptedPassword string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
