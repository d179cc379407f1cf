package domain

import (
	"errors"
	"testing"
	"time"
)

func TestVerifyOTP(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := 10 * time.Minute

	t.Run("success clears the code", func(t *testing.T) {
		t.Parallel()
		u := User{}
		u.IssueOTP("123456", PurposeEmailVerification, now, ttl)

		if err := u.VerifyOTP("123456", PurposeEmailVerification, now.Add(time.Minute)); err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if u.OTPCode != nil || u.OTPExpires != nil || u.OTPPurpose != nil {
			t.Fatalf("expected cleared code triad after success")
		}
		if err := u.VerifyOTP("123456", PurposeEmailVerification, now.Add(time.Minute)); !errors.Is(err, ErrNoCodePending) {
			t.Fatalf("expected ErrNoCodePending on reuse, got %v", err)
		}
	})

	t.Run("no code pending", func(t *testing.T) {
		t.Parallel()
		u := User{}
		if err := u.VerifyOTP("123456", PurposeEmailVerification, now); !errors.Is(err, ErrNoCodePending) {
			t.Fatalf("expected ErrNoCodePending, got %v", err)
		}
	})

	t.Run("purpose mismatch wins over expiry and code", func(t *testing.T) {
		t.Parallel()
		u := User{}
		u.IssueOTP("123456", PurposeEmailChange, now, ttl)

		err := u.VerifyOTP("000000", PurposeDataDeletion, now.Add(time.Hour))
		if !errors.Is(err, ErrCodePurposeMismatch) {
			t.Fatalf("expected ErrCodePurposeMismatch, got %v", err)
		}
		if u.OTPCode == nil {
			t.Fatalf("failed verify must leave the pending code intact")
		}
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		u := User{}
		u.IssueOTP("123456", PurposeEmailVerification, now, ttl)

		err := u.VerifyOTP("123456", PurposeEmailVerification, now.Add(ttl+time.Second))
		if !errors.Is(err, ErrCodeExpired) {
			t.Fatalf("expected ErrCodeExpired, got %v", err)
		}
	})

	t.Run("wrong code", func(t *testing.T) {
		t.Parallel()
		u := User{}
		u.IssueOTP("123456", PurposeEmailVerification, now, ttl)

		err := u.VerifyOTP("654321", PurposeEmailVerification, now.Add(time.Minute))
		if !errors.Is(err, ErrCodeMismatch) {
			t.Fatalf("expected ErrCodeMismatch, got %v", err)
		}
		if u.OTPCode == nil {
			t.Fatalf("failed verify must leave the pending code intact")
		}
	})

	t.Run("reissue overwrites prior code", func(t *testing.T) {
		t.Parallel()
		u := User{}
		u.IssueOTP("111111", PurposeEmailVerification, now, ttl)
		u.IssueOTP("222222", PurposeEmailChange, now.Add(time.Minute), ttl)

		if err := u.VerifyOTP("111111", PurposeEmailVerification, now.Add(2*time.Minute)); !errors.Is(err, ErrCodePurposeMismatch) {
			t.Fatalf("expected old code invalidated, got %v", err)
		}
		if err := u.VerifyOTP("222222", PurposeEmailChange, now.Add(2*time.Minute)); err != nil {
			t.Fatalf("new code should verify: %v", err)
		}
	})
}

func TestResetToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	u := User{}
	if u.ResetTokenValid(now) {
		t.Fatalf("token should not be valid before issue")
	}

	u.IssueResetToken("tok", now, time.Hour)
	if !u.ResetTokenValid(now.Add(30 * time.Minute)) {
		t.Fatalf("token should be valid inside the window")
	}
	if u.ResetTokenValid(now.Add(2 * time.Hour)) {
		t.Fatalf("token should expire")
	}

	u.ClearResetToken(now.Add(time.Minute))
	if u.ResetTokenValid(now.Add(2 * time.Minute)) {
		t.Fatalf("cleared token should not validate")
	}
}

func TestValidOTPPurpose(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"email_verification", "email_change", "data_deletion"} {
		if !ValidOTPPurpose(valid) {
			t.Fatalf("expected %q to be valid", valid)
		}
	}
	for _, invalid := range []string{"", "password_reset", "EMAIL_CHANGE"} {
		if ValidOTPPurpose(invalid) {
			t.Fatalf("expected %q to be invalid", invalid)
		}
	}
}
