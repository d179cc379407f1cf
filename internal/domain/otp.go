package domain

import "time"

// OTPPurpose tags which flow an outstanding one-time code authorizes.
// A code issued for one purpose can never confirm another.
type OTPPurpose string

const (
	PurposeEmailVerification OTPPurpose = "email_verification"
	PurposeEmailChange       OTPPurpose = "email_change"
	PurposeDataDeletion      OTPPurpose = "data_deletion"
)

// ValidOTPPurpose reports whether the raw tag names a known flow.
func ValidOTPPurpose(raw string) bool {
	switch OTPPurpose(raw) {
	case PurposeEmailVerification, PurposeEmailChange, PurposeDataDeletion:
		return true
	default:
		return false
	}
}

// IssueOTP arms the account's code triad, overwriting any prior pending code
// regardless of its purpose. The caller persists the mutated aggregate.
func (u *User) IssueOTP(code string, purpose OTPPurpose, now time.Time, ttl time.Duration) {
	expires := now.Add(ttl)
	u.OTPCode = &code
	u.OTPExpires = &expires
	u.OTPPurpose = &purpose
	u.UpdatedAt = now
}

// VerifyOTP checks a submitted code against the pending triad. Failures are
// terminal for the call and leave state untouched; success clears the triad
// so the code is single-use.
func (u *User) VerifyOTP(code string, purpose OTPPurpose, now time.Time) error {
	if u.OTPCode == nil || u.OTPPurpose == nil || u.OTPExpires == nil {
		return ErrNoCodePending
	}
	if *u.OTPPurpose != purpose {
		return ErrCodePurposeMismatch
	}
	if now.After(*u.OTPExpires) {
		return ErrCodeExpired
	}
	if *u.OTPCode != code {
		return ErrCodeMismatch
	}
	u.ClearOTP(now)
	return nil
}

// ClearOTP drops the pending code triad.
func (u *User) ClearOTP(now time.Time) {
	u.OTPCode = nil
	u.OTPExpires = nil
	u.OTPPurpose = nil
	u.UpdatedAt = now
}

// IssueResetToken arms the single-use password-reset credential.
func (u *User) IssueResetToken(token string, now time.Time, ttl time.Duration) {
	expires := now.Add(ttl)
	u.ResetToken = &token
	u.ResetTokenExpires = &expires
	u.UpdatedAt = now
}

// ResetTokenValid reports whether the account holds an unexpired reset token.
func (u *User) ResetTokenValid(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpires != nil && now.Before(*u.ResetTokenExpires)
}

// ClearResetToken drops the reset credential; called on use or invalidation.
func (u *User) ClearResetToken(now time.Time) {
	u.ResetToken = nil
	u.ResetTokenExpires = nil
	u.UpdatedAt = now
}
