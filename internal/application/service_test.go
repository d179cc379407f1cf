package application

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
	"github.com/mailagent/server/internal/ports"
)

func TestRegisterVerifyLogin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	res, err := f.service.Register(ctx, RegisterRequest{
		Email:    "User@Example.com",
		Username: "sam_w",
		Password: "SecurePass123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.UserID == uuid.Nil {
		t.Fatalf("register returned empty user id")
	}
	if res.Email != "user@example.com" {
		t.Fatalf("expected normalized email, got %q", res.Email)
	}
	if !res.RequiresVerification {
		t.Fatalf("register should flag the account as pending verification")
	}
	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected verification mail, got %d mails", len(f.mailer.sent))
	}

	if _, err := f.service.Login(ctx, LoginRequest{Email: "user@example.com", Password: "SecurePass123"}); !errors.Is(err, domain.ErrEmailNotVerified) {
		t.Fatalf("expected ErrEmailNotVerified before verification, got %v", err)
	}

	code := f.users.otpCode(t, "user@example.com")
	if _, err := f.service.VerifyEmail(ctx, VerifyOTPRequest{Email: "user@example.com", Code: "000000"}); !errors.Is(err, domain.ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch for wrong otp, got %v", err)
	}

	loginRes, err := f.service.VerifyEmail(ctx, VerifyOTPRequest{Email: "user@example.com", Code: code})
	if err != nil {
		t.Fatalf("verify email failed: %v", err)
	}
	if loginRes.Token == "" || loginRes.TokenType != "bearer" {
		t.Fatalf("expected bearer token after verification, got %+v", loginRes)
	}
	if !loginRes.User.IsVerified {
		t.Fatalf("profile should report verified")
	}

	if _, err := f.service.VerifyEmail(ctx, VerifyOTPRequest{Email: "user@example.com", Code: code}); !errors.Is(err, domain.ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified on reuse, got %v", err)
	}

	loginRes, err = f.service.Login(ctx, LoginRequest{Email: "user@example.com", Password: "SecurePass123"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := f.service.ValidateToken(ctx, loginRes.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != res.UserID {
		t.Fatalf("token subject mismatch: got %s want %s", claims.UserID, res.UserID)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.Register(ctx, RegisterRequest{Email: "a@example.com", Username: "taken", Password: "SecurePass123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := f.service.Register(ctx, RegisterRequest{Email: "a@example.com", Password: "SecurePass123"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := f.service.Register(ctx, RegisterRequest{Email: "b@example.com", Username: "taken", Password: "SecurePass123"}); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if _, err := f.service.Register(ctx, RegisterRequest{Email: "c@example.com", Password: "weak"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for weak password, got %v", err)
	}
}

func TestLoginGuardTracksFailures(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.registerVerified(t, "user@example.com", "SecurePass123")

	for i := 0; i < 3; i++ {
		if _, err := f.service.Login(ctx, LoginRequest{Email: "user@example.com", Password: "WrongPass123"}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
	if n := f.guard.count("login:user@example.com"); n != 3 {
		t.Fatalf("expected 3 recorded failures, got %d", n)
	}

	// Unknown accounts also feed the guard so probing is visible.
	if _, err := f.service.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "SecurePass123"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown account, got %v", err)
	}
	if n := f.guard.count("login:ghost@example.com"); n != 1 {
		t.Fatalf("expected failure recorded for unknown account, got %d", n)
	}

	if _, err := f.service.Login(ctx, LoginRequest{Email: "user@example.com", Password: "SecurePass123"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if n := f.guard.count("login:user@example.com"); n != 0 {
		t.Fatalf("successful login should clear the guard, got %d", n)
	}
}

func TestForgotPasswordIsEnumerationResistant(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.registerVerified(t, "user@example.com", "SecurePass123")
	mailsBefore := len(f.mailer.sent)

	if err := f.service.ForgotPassword(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("forgot password must not reveal unknown accounts: %v", err)
	}
	if len(f.mailer.sent) != mailsBefore {
		t.Fatalf("no mail should be sent for unknown accounts")
	}

	if err := f.service.ForgotPassword(ctx, "user@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	if len(f.mailer.sent) != mailsBefore+1 {
		t.Fatalf("expected reset mail for known account")
	}
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.registerVerified(t, "user@example.com", "SecurePass123")

	if err := f.service.ForgotPassword(ctx, "user@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	token := f.users.resetToken(t, "user@example.com")

	if err := f.service.VerifyResetToken(ctx, token); err != nil {
		t.Fatalf("verify reset token failed: %v", err)
	}
	// Pre-flight must not consume the token.
	if err := f.service.VerifyResetToken(ctx, token); err != nil {
		t.Fatalf("verify reset token should be repeatable: %v", err)
	}

	if err := f.service.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "FreshPass456"}); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}
	if err := f.service.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "OtherPass789"}); !errors.Is(err, domain.ErrResetTokenInvalid) {
		t.Fatalf("expected consumed token rejected, got %v", err)
	}
	if err := f.service.VerifyResetToken(ctx, "bogus-token"); !errors.Is(err, domain.ErrResetTokenInvalid) {
		t.Fatalf("expected unknown token rejected, got %v", err)
	}

	if _, err := f.service.Login(ctx, LoginRequest{Email: "user@example.com", Password: "SecurePass123"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, err := f.service.Login(ctx, LoginRequest{Email: "user@example.com", Password: "FreshPass456"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestResetTokenExpires(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.registerVerified(t, "user@example.com", "SecurePass123")

	if err := f.service.ForgotPassword(ctx, "user@example.com"); err != nil {
		t.Fatalf("forgot password failed: %v", err)
	}
	token := f.users.resetToken(t, "user@example.com")

	f.advance(2 * time.Hour)
	if err := f.service.VerifyResetToken(ctx, token); !errors.Is(err, domain.ErrResetTokenInvalid) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
	if err := f.service.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "FreshPass456"}); !errors.Is(err, domain.ErrResetTokenInvalid) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}

func TestResendVerification(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.Register(ctx, RegisterRequest{Email: "user@example.com", Password: "SecurePass123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	first := f.users.otpCode(t, "user@example.com")

	if err := f.service.ResendVerification(ctx, "user@example.com"); err != nil {
		t.Fatalf("resend failed: %v", err)
	}
	second := f.users.otpCode(t, "user@example.com")

	if first != second {
		if _, err := f.service.VerifyEmail(ctx, VerifyOTPRequest{Email: "user@example.com", Code: first}); !errors.Is(err, domain.ErrCodeMismatch) {
			t.Fatalf("old code should be invalidated, got %v", err)
		}
	}
	if _, err := f.service.VerifyEmail(ctx, VerifyOTPRequest{Email: "user@example.com", Code: second}); err != nil {
		t.Fatalf("verify with fresh code failed: %v", err)
	}

	if err := f.service.ResendVerification(ctx, "user@example.com"); !errors.Is(err, domain.ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified after verification, got %v", err)
	}
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	err := f.service.ChangePassword(ctx, userID, ChangePasswordRequest{CurrentPassword: "WrongPass123", NewPassword: "FreshPass456"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := f.service.ChangePassword(ctx, userID, ChangePasswordRequest{CurrentPassword: "SecurePass123", NewPassword: "FreshPass456"}); err != nil {
		t.Fatalf("change password failed: %v", err)
	}
	if _, err := f.service.Login(ctx, LoginRequest{Email: "user@example.com", Password: "FreshPass456"}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestEmailChangeFlow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "old@example.com", "SecurePass123")
	f.registerVerified(t, "taken@example.com", "SecurePass123")

	err := f.service.IssuePurposeCode(ctx, userID, PurposeCodeRequest{Purpose: "email_change", NewEmail: "taken@example.com"})
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail for claimed address, got %v", err)
	}
	err = f.service.IssuePurposeCode(ctx, userID, PurposeCodeRequest{Purpose: "email_change", NewEmail: "old@example.com"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected rejection of unchanged email, got %v", err)
	}
	err = f.service.IssuePurposeCode(ctx, userID, PurposeCodeRequest{Purpose: "email_verification"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("verification purpose is not issuable here, got %v", err)
	}

	if err := f.service.IssuePurposeCode(ctx, userID, PurposeCodeRequest{Purpose: "email_change", NewEmail: "new@example.com"}); err != nil {
		t.Fatalf("issue purpose code failed: %v", err)
	}
	last := f.mailer.last(t)
	if last.To != "new@example.com" {
		t.Fatalf("code must go to the new address, went to %q", last.To)
	}

	code := f.users.otpCode(t, "old@example.com")
	if err := f.service.ConfirmPurposeCode(ctx, userID, ConfirmPurposeCodeRequest{Purpose: "data_deletion", Code: code}); !errors.Is(err, domain.ErrCodePurposeMismatch) {
		t.Fatalf("expected purpose mismatch, got %v", err)
	}
	if err := f.service.ConfirmPurposeCode(ctx, userID, ConfirmPurposeCodeRequest{Purpose: "email_change", Code: code}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	user, err := f.service.CurrentUser(ctx, userID)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Email != "new@example.com" {
		t.Fatalf("email not swapped, got %q", user.Email)
	}
	if user.PendingEmail != nil {
		t.Fatalf("pending email should be cleared")
	}

	if err := f.service.ConfirmPurposeCode(ctx, userID, ConfirmPurposeCodeRequest{Purpose: "email_change", Code: code}); !errors.Is(err, domain.ErrNoCodePending) {
		t.Fatalf("code must be single use, got %v", err)
	}
}

func TestDataDeletionPurgesEverything(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	if _, err := f.service.PutSecret(ctx, userID, PutSecretRequest{Key: "API_KEY", Value: "sk-12345"}); err != nil {
		t.Fatalf("put secret: %v", err)
	}
	if _, err := f.service.PutEmailConfig(ctx, userID, EmailConfigRequest{Email: "user@gmail.com", Password: "app-pass"}); err != nil {
		t.Fatalf("put email config: %v", err)
	}
	if _, err := f.service.Chat(ctx, userID, ChatRequest{Message: "hello"}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if _, err := f.service.ComposeEmail(ctx, userID, ComposeEmailRequest{Prompt: "say hi", Recipient: "sam@example.com"}); err != nil {
		t.Fatalf("compose: %v", err)
	}

	if err := f.service.IssuePurposeCode(ctx, userID, PurposeCodeRequest{Purpose: "data_deletion"}); err != nil {
		t.Fatalf("issue deletion code: %v", err)
	}
	code := f.users.otpCode(t, "user@example.com")
	if err := f.service.ConfirmPurposeCode(ctx, userID, ConfirmPurposeCodeRequest{Purpose: "data_deletion", Code: code}); err != nil {
		t.Fatalf("confirm deletion: %v", err)
	}

	if items, err := f.service.ListSecrets(ctx, userID); err != nil || len(items) != 0 {
		t.Fatalf("secrets should be purged, got %d err %v", len(items), err)
	}
	if msgs, err := f.service.ChatHistory(ctx, userID, HistoryQuery{}); err != nil || len(msgs) != 0 {
		t.Fatalf("chat history should be purged, got %d err %v", len(msgs), err)
	}
	if emails, err := f.service.EmailHistory(ctx, userID, HistoryQuery{}); err != nil || len(emails) != 0 {
		t.Fatalf("email history should be purged, got %d err %v", len(emails), err)
	}
	if _, err := f.service.ActiveEmailConfig(ctx, userID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("email config should be purged, got %v", err)
	}

	// The account itself survives.
	if _, err := f.service.Login(ctx, LoginRequest{Email: "user@example.com", Password: "SecurePass123"}); err != nil {
		t.Fatalf("account should survive data deletion: %v", err)
	}
}

func TestSecretsAreEncryptedAndMasked(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	item, err := f.service.PutSecret(ctx, userID, PutSecretRequest{Key: "openai_key", Value: "sk-1234567890abcd"})
	if err != nil {
		t.Fatalf("put secret: %v", err)
	}
	if item.Key != "OPENAI_KEY" {
		t.Fatalf("key should be uppercased, got %q", item.Key)
	}
	if strings.Contains(item.MaskedValue, "sk-1234567890") {
		t.Fatalf("masked value leaks the secret: %q", item.MaskedValue)
	}
	if !strings.HasSuffix(item.MaskedValue, "abcd") {
		t.Fatalf("mask should keep the last 4 characters, got %q", item.MaskedValue)
	}

	stored := f.envVars.raw(t, userID, "OPENAI_KEY")
	if strings.Contains(stored, "sk-1234567890abcd") {
		t.Fatalf("secret stored in plaintext")
	}
	if !strings.HasPrefix(stored, "enc:") {
		t.Fatalf("stored value should be sealed, got %q", stored)
	}

	plain, err := f.service.RevealSecret(ctx, userID, "OPENAI_KEY")
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if plain != "sk-1234567890abcd" {
		t.Fatalf("reveal mismatch: %q", plain)
	}

	if _, err := f.service.PutSecret(ctx, userID, PutSecretRequest{Key: "bad key!", Value: "x"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid key rejected, got %v", err)
	}

	if err := f.service.DeleteSecret(ctx, userID, "OPENAI_KEY"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.service.RevealSecret(ctx, userID, "OPENAI_KEY"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRandomDigits(t *testing.T) {
	t.Parallel()

	for _, size := range []int{4, 6, 8} {
		code, err := randomDigits(size)
		if err != nil {
			t.Fatalf("randomDigits(%d): %v", size, err)
		}
		if len(code) != size {
			t.Fatalf("randomDigits(%d) = %q, want %d digits", size, code, size)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("randomDigits(%d) = %q, contains a non-digit", size, code)
			}
		}
	}

	code, err := randomDigits(0)
	if err != nil {
		t.Fatalf("randomDigits(0): %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("randomDigits(0) = %q, want the 6-digit default", code)
	}
}

func TestMaskSecret(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "•••"},
		{"12345678", "••••••••"},
		{"123456789", "•••••6789"},
		{"sk-1234567890abcd", "•••••••••••••abcd"},
	}
	for _, tc := range cases {
		if got := maskSecret(tc.in); got != tc.want {
			t.Fatalf("maskSecret(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestChatRespectsSaveHistory(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	res, err := f.service.Chat(ctx, userID, ChatRequest{Message: "draft a follow-up", Tone: "casual"})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if res.Reply == "" || res.MessageID == "" {
		t.Fatalf("empty chat response: %+v", res)
	}

	msgs, err := f.service.ChatHistory(ctx, userID, HistoryQuery{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected both turns persisted, got %d", len(msgs))
	}

	off := false
	if _, err := f.service.UpdateProfile(ctx, userID, UpdateProfileRequest{SaveHistory: &off}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if _, err := f.service.Chat(ctx, userID, ChatRequest{Message: "another one"}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	msgs, err = f.service.ChatHistory(ctx, userID, HistoryQuery{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("history opt-out must not persist turns, got %d", len(msgs))
	}

	if _, err := f.service.Chat(ctx, userID, ChatRequest{Message: "hi", Tone: "sarcastic"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected unsupported tone rejected, got %v", err)
	}
}

func TestComposeEmailRegeneration(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	first, err := f.service.ComposeEmail(ctx, userID, ComposeEmailRequest{Prompt: "ask for a raise", Recipient: "boss@example.com"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if first.Status != domain.EmailStatusUnsent || first.Version != 1 || first.RegenerationCount != 0 {
		t.Fatalf("unexpected initial draft state: %+v", first)
	}
	if first.ToEmail != "boss@example.com" {
		t.Fatalf("recipient not carried: %q", first.ToEmail)
	}

	second, err := f.service.ComposeEmail(ctx, userID, ComposeEmailRequest{EmailID: first.EmailID, Prompt: "ask for a raise, more firmly"})
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if second.EmailID != first.EmailID {
		t.Fatalf("regeneration must keep the email id")
	}
	if second.RegenerationCount != 1 || second.Version != 2 {
		t.Fatalf("expected regen 1 version 2, got %d/%d", second.RegenerationCount, second.Version)
	}

	// Composing also leaves an email-type entry in chat history.
	msgs, err := f.service.ChatHistory(ctx, userID, HistoryQuery{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	found := false
	for _, m := range msgs {
		if m.MessageType == domain.MessageTypeEmail && len(m.EmailData) > 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected email-type chat entry with payload")
	}
}

func TestSendEmailUsesActiveConfig(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	_, err := f.service.SendEmail(ctx, userID, SendEmailRequest{ToEmail: "sam@example.com", Subject: "Hi", Body: "Hello"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected rejection without email config, got %v", err)
	}

	if _, err := f.service.PutEmailConfig(ctx, userID, EmailConfigRequest{Email: "user@gmail.com", Password: "app-pass"}); err != nil {
		t.Fatalf("put email config: %v", err)
	}

	sent, err := f.service.SendEmail(ctx, userID, SendEmailRequest{ToEmail: "sam@example.com", Subject: "Hi", Body: "Hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != domain.EmailStatusSent || sent.SentAt == nil {
		t.Fatalf("expected delivered state, got %+v", sent)
	}

	delivery := f.userMail.last(t)
	if delivery.identity.Email != "user@gmail.com" || delivery.identity.Password != "app-pass" {
		t.Fatalf("wrong smtp identity: %+v", delivery.identity)
	}
	if delivery.mail.To != "sam@example.com" {
		t.Fatalf("wrong recipient: %q", delivery.mail.To)
	}

	stats, err := f.service.UsageStats(ctx, userID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.EmailsSent != 1 || stats.EmailDrafts != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSendEmailMarksExistingDraft(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	if _, err := f.service.PutEmailConfig(ctx, userID, EmailConfigRequest{Email: "user@gmail.com", Password: "app-pass"}); err != nil {
		t.Fatalf("put email config: %v", err)
	}
	draft, err := f.service.ComposeEmail(ctx, userID, ComposeEmailRequest{Prompt: "say hi", Recipient: "sam@example.com"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	sent, err := f.service.SendEmail(ctx, userID, SendEmailRequest{
		EmailID: draft.EmailID,
		ToEmail: "sam@example.com",
		Subject: draft.Subject,
		Body:    "edited body",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.EmailID != draft.EmailID {
		t.Fatalf("send must update the existing draft")
	}
	if sent.Status != domain.EmailStatusSent || sent.Body != "edited body" {
		t.Fatalf("draft not updated on send: %+v", sent)
	}

	emails, err := f.service.EmailHistory(ctx, userID, HistoryQuery{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(emails) != 1 {
		t.Fatalf("send of an existing draft must not add a history row, got %d", len(emails))
	}
}

func TestUpdateProfileTriState(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	pic := "https://cdn.example.com/p.png"
	name := "sam_w"
	item, err := f.service.UpdateProfile(ctx, userID, UpdateProfileRequest{Username: &name, ProfilePicture: &pic})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if item.Username != "sam_w" || item.ProfilePicture != pic {
		t.Fatalf("fields not applied: %+v", item)
	}

	empty := ""
	item, err = f.service.UpdateProfile(ctx, userID, UpdateProfileRequest{ProfilePicture: &empty})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if item.ProfilePicture != "" {
		t.Fatalf("pointer-to-empty should clear the picture")
	}
	if item.Username != "sam_w" {
		t.Fatalf("absent fields must stay unchanged")
	}

	badTone := "sarcastic"
	if _, err := f.service.UpdateProfile(ctx, userID, UpdateProfileRequest{DefaultTone: &badTone}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid tone rejected, got %v", err)
	}

	otherID := f.registerVerified(t, "other@example.com", "SecurePass123")
	taken := "sam_w"
	if _, err := f.service.UpdateProfile(ctx, otherID, UpdateProfileRequest{Username: &taken}); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestClearChatHistory(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	if _, err := f.service.Chat(ctx, userID, ChatRequest{Message: "one"}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if _, err := f.service.Chat(ctx, userID, ChatRequest{Message: "two"}); err != nil {
		t.Fatalf("chat: %v", err)
	}

	deleted, err := f.service.ClearChatHistory(ctx, userID)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if deleted != 4 {
		t.Fatalf("expected 4 rows cleared, got %d", deleted)
	}
	msgs, err := f.service.ChatHistory(ctx, userID, HistoryQuery{})
	if err != nil || len(msgs) != 0 {
		t.Fatalf("history should be empty, got %d err %v", len(msgs), err)
	}
}

func TestHistoryQueryValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	userID := f.registerVerified(t, "user@example.com", "SecurePass123")

	now := time.Now().UTC()
	_, err := f.service.ChatHistory(ctx, userID, HistoryQuery{Before: &now, After: &now})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("before+after must be mutually exclusive, got %v", err)
	}
}

// fixture wires the service against in-memory fakes.

type fixture struct {
	service  *Service
	users    *fakeUsers
	envVars  *fakeEnvVars
	guard    *fakeLoginGuard
	mailer   *fakeMailer
	userMail *fakeUserMail
	now      time.Time
}

func newFixture() *fixture {
	users := &fakeUsers{byID: map[uuid.UUID]domain.User{}}
	envVars := &fakeEnvVars{}
	guard := &fakeLoginGuard{failures: map[string][]time.Time{}}
	mailer := &fakeMailer{}
	userMail := &fakeUserMail{}

	f := &fixture{
		users:    users,
		envVars:  envVars,
		guard:    guard,
		mailer:   mailer,
		userMail: userMail,
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	f.service = NewService(Dependencies{
		Config: Config{
			TokenTTL:             7 * 24 * time.Hour,
			OTPTTL:               10 * time.Minute,
			ResetTokenTTL:        time.Hour,
			FailedLoginWindow:    15 * time.Minute,
			FailedLoginThreshold: 5,
			ClientURL:            "http://localhost:3000",
			AppName:              "MailAgent",
		},
		Users:        users,
		EnvVars:      envVars,
		EmailConfigs: &fakeEmailConfigs{},
		Chats:        &fakeChats{},
		Emails:       &fakeEmails{},
		Activity:     &fakeActivity{},
		LoginGuard:   guard,
		Hasher:       fakeHasher{},
		TokenSigner:  &fakeSigner{},
		Cipher:       fakeCipher{},
		Mailer:       mailer,
		UserMail:     userMail,
		Drafts:       fakeDrafts{},
	})
	f.service.nowFn = func() time.Time { return f.now }
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) registerVerified(t *testing.T, email, password string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	res, err := f.service.Register(ctx, RegisterRequest{Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	code := f.users.otpCode(t, email)
	if _, err := f.service.VerifyEmail(ctx, VerifyOTPRequest{Email: email, Code: code}); err != nil {
		t.Fatalf("verify %s: %v", email, err)
	}
	return res.UserID
}

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.User
}

func (f *fakeUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return domain.User{}, domain.ErrDuplicateEmail
		}
	}
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Username != nil && *u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByResetToken(_ context.Context, token string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.ResetToken != nil && *u.ResetToken == token {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) Save(_ context.Context, user domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUsers) ClearExpiredOneTimeState(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, u := range f.byID {
		if u.OTPExpires != nil && now.After(*u.OTPExpires) {
			u.ClearOTP(now)
			n++
		}
		if u.ResetTokenExpires != nil && now.After(*u.ResetTokenExpires) {
			u.ClearResetToken(now)
			n++
		}
		f.byID[id] = u
	}
	return n, nil
}

func (f *fakeUsers) otpCode(t *testing.T, email string) string {
	t.Helper()
	u, err := f.GetByEmail(context.Background(), email)
	if err != nil || u.OTPCode == nil {
		t.Fatalf("no pending otp for %s (err %v)", email, err)
	}
	return *u.OTPCode
}

func (f *fakeUsers) resetToken(t *testing.T, email string) string {
	t.Helper()
	u, err := f.GetByEmail(context.Background(), email)
	if err != nil || u.ResetToken == nil {
		t.Fatalf("no reset token for %s (err %v)", email, err)
	}
	return *u.ResetToken
}

type fakeEnvVars struct {
	mu    sync.Mutex
	items []domain.EnvironmentVariable
}

func (f *fakeEnvVars) Upsert(_ context.Context, v domain.EnvironmentVariable) (domain.EnvironmentVariable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.UserID == v.UserID && it.Key == v.Key {
			v.ID = it.ID
			f.items[i] = v
			return v, nil
		}
	}
	v.ID = int64(len(f.items) + 1)
	f.items = append(f.items, v)
	return v, nil
}

func (f *fakeEnvVars) GetByKey(_ context.Context, userID uuid.UUID, key string) (domain.EnvironmentVariable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.UserID == userID && it.Key == key {
			return it, nil
		}
	}
	return domain.EnvironmentVariable{}, domain.ErrNotFound
}

func (f *fakeEnvVars) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.EnvironmentVariable, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.EnvironmentVariable
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeEnvVars) Delete(_ context.Context, userID uuid.UUID, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.UserID == userID && it.Key == key {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeEnvVars) DeleteAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var n int64
	for _, it := range f.items {
		if it.UserID == userID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n, nil
}

func (f *fakeEnvVars) raw(t *testing.T, userID uuid.UUID, key string) string {
	t.Helper()
	v, err := f.GetByKey(context.Background(), userID, key)
	if err != nil {
		t.Fatalf("no stored secret %s: %v", key, err)
	}
	return v.EncryptedValue
}

type fakeEmailConfigs struct {
	mu    sync.Mutex
	items []domain.EmailConfig
}

func (f *fakeEmailConfigs) Upsert(_ context.Context, cfg domain.EmailConfig) (domain.EmailConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].UserID == cfg.UserID {
			f.items[i].IsActive = false
		}
	}
	cfg.IsActive = true
	for i, it := range f.items {
		if it.UserID == cfg.UserID && it.Email == cfg.Email {
			cfg.ID = it.ID
			f.items[i] = cfg
			return cfg, nil
		}
	}
	cfg.ID = int64(len(f.items) + 1)
	f.items = append(f.items, cfg)
	return cfg, nil
}

func (f *fakeEmailConfigs) GetActive(_ context.Context, userID uuid.UUID) (domain.EmailConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.UserID == userID && it.IsActive {
			return it, nil
		}
	}
	return domain.EmailConfig{}, domain.ErrNotFound
}

func (f *fakeEmailConfigs) Delete(_ context.Context, userID uuid.UUID, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.UserID == userID && it.Email == email {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeEmailConfigs) DeleteAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var n int64
	for _, it := range f.items {
		if it.UserID == userID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n, nil
}

type fakeChats struct {
	mu    sync.Mutex
	items []domain.ChatMessage
}

func (f *fakeChats) Insert(_ context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.UserID == msg.UserID && it.MessageID == msg.MessageID {
			return domain.ChatMessage{}, domain.ErrConflict
		}
	}
	msg.ID = int64(len(f.items) + 1)
	f.items = append(f.items, msg)
	return msg, nil
}

func (f *fakeChats) ListByUser(_ context.Context, userID uuid.UUID, page ports.HistoryPage) ([]domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ChatMessage
	for _, it := range f.items {
		if it.UserID != userID {
			continue
		}
		if page.Before != nil && !it.Timestamp.Before(*page.Before) {
			continue
		}
		if page.After != nil && !it.Timestamp.After(*page.After) {
			continue
		}
		out = append(out, it)
	}
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (f *fakeChats) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, it := range f.items {
		if it.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeChats) DeleteAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var n int64
	for _, it := range f.items {
		if it.UserID == userID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n, nil
}

type fakeEmails struct {
	mu    sync.Mutex
	items []domain.EmailMessage
}

func (f *fakeEmails) Insert(_ context.Context, msg domain.EmailMessage) (domain.EmailMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = int64(len(f.items) + 1)
	f.items = append(f.items, msg)
	return msg, nil
}

func (f *fakeEmails) GetByEmailID(_ context.Context, userID uuid.UUID, emailID string) (domain.EmailMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.UserID == userID && it.EmailID == emailID {
			return it, nil
		}
	}
	return domain.EmailMessage{}, domain.ErrNotFound
}

func (f *fakeEmails) Update(_ context.Context, userID uuid.UUID, emailID string, update ports.EmailMessageUpdate) (domain.EmailMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if it.UserID != userID || it.EmailID != emailID {
			continue
		}
		if update.Status != nil {
			it.Status = *update.Status
		}
		if update.Body != nil {
			it.Body = *update.Body
		}
		if update.Subject != nil {
			it.Subject = *update.Subject
		}
		if update.ToEmail != nil {
			it.ToEmail = *update.ToEmail
		}
		if update.IncrementRegenCount {
			it.RegenerationCount++
		}
		if update.IncrementVersion {
			it.Version++
		}
		if update.SentAt != nil {
			it.SentAt = update.SentAt
		}
		f.items[i] = it
		return it, nil
	}
	return domain.EmailMessage{}, domain.ErrNotFound
}

func (f *fakeEmails) ListByUser(_ context.Context, userID uuid.UUID, page ports.HistoryPage) ([]domain.EmailMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.EmailMessage
	for _, it := range f.items {
		if it.UserID != userID {
			continue
		}
		if page.Before != nil && !it.Timestamp.Before(*page.Before) {
			continue
		}
		if page.After != nil && !it.Timestamp.After(*page.After) {
			continue
		}
		out = append(out, it)
	}
	if page.Limit > 0 && len(out) > page.Limit {
		out = out[:page.Limit]
	}
	return out, nil
}

func (f *fakeEmails) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, it := range f.items {
		if it.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEmails) CountDelivered(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, it := range f.items {
		if it.UserID == userID && it.Status == domain.EmailStatusSent {
			n++
		}
	}
	return n, nil
}

func (f *fakeEmails) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]domain.EmailMessage, error) {
	return f.ListByUser(context.Background(), userID, ports.HistoryPage{Limit: limit})
}

func (f *fakeEmails) DeleteAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	var n int64
	for _, it := range f.items {
		if it.UserID == userID {
			n++
			continue
		}
		kept = append(kept, it)
	}
	f.items = kept
	return n, nil
}

type fakeActivity struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
}

func (f *fakeActivity) Insert(_ context.Context, entry domain.ActivityEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeActivity) ListByUser(_ context.Context, userID uuid.UUID, q ports.ActivityQuery) ([]domain.ActivityEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ActivityEntry
	for _, e := range f.entries {
		if e.UserID != userID {
			continue
		}
		if q.Action != "" && e.Action != q.Action {
			continue
		}
		if q.Status != "" && e.Status != q.Status {
			continue
		}
		out = append(out, e)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *fakeActivity) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	var n int64
	for _, e := range f.entries {
		if e.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return n, nil
}

func (f *fakeActivity) DeleteAllByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	var n int64
	for _, e := range f.entries {
		if e.UserID == userID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return n, nil
}

type fakeLoginGuard struct {
	mu       sync.Mutex
	failures map[string][]time.Time
}

func (f *fakeLoginGuard) RecordFailure(_ context.Context, key string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = append(f.failures[key], at)
	return nil
}

func (f *fakeLoginGuard) FailuresSince(_ context.Context, key string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, at := range f.failures[key] {
		if !at.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeLoginGuard) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, key)
	return nil
}

func (f *fakeLoginGuard) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.failures[key])
}

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

func (fakeHasher) Compare(hash string, plain string) error {
	if hash != "hashed:"+plain {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type fakeSigner struct{}

func (f *fakeSigner) Sign(claims ports.AuthClaims) (string, error) {
	return "token:" + claims.UserID.String(), nil
}

func (f *fakeSigner) ParseAndValidate(token string) (ports.AuthClaims, error) {
	raw, ok := strings.CutPrefix(token, "token:")
	if !ok {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	return ports.AuthClaims{UserID: userID}, nil
}

type fakeCipher struct{}

func (fakeCipher) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	return "enc:" + base64.StdEncoding.EncodeToString([]byte(plain)), nil
}

func (fakeCipher) Decrypt(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	raw, ok := strings.CutPrefix(sealed, "enc:")
	if !ok {
		return "", domain.ErrDecryptFailed
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", domain.ErrDecryptFailed
	}
	return string(decoded), nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []ports.OutboundMail
}

func (f *fakeMailer) Send(_ context.Context, m ports.OutboundMail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeMailer) last(t *testing.T) ports.OutboundMail {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatalf("no mail sent")
	}
	return f.sent[len(f.sent)-1]
}

type userDelivery struct {
	identity ports.SMTPIdentity
	mail     ports.OutboundMail
}

type fakeUserMail struct {
	mu         sync.Mutex
	deliveries []userDelivery
}

func (f *fakeUserMail) SendFrom(_ context.Context, identity ports.SMTPIdentity, m ports.OutboundMail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deliveries = append(f.deliveries, userDelivery{identity: identity, mail: m})
	return nil
}

func (f *fakeUserMail) last(t *testing.T) userDelivery {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.deliveries) == 0 {
		t.Fatalf("no user mail delivered")
	}
	return f.deliveries[len(f.deliveries)-1]
}

type fakeDrafts struct{}

func (fakeDrafts) GenerateReply(_ context.Context, req ports.DraftRequest) (string, error) {
	return fmt.Sprintf("reply(%s): %s", req.Tone, req.Message), nil
}

func (fakeDrafts) GenerateEmail(_ context.Context, req ports.EmailDraftRequest) (ports.EmailDraft, error) {
	return ports.EmailDraft{
		Subject: "Re: " + req.Prompt,
		Body:    fmt.Sprintf("draft(%s): %s", req.Tone, req.Prompt),
		To:      req.Recipient,
	}, nil
}
