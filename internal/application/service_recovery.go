package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
)

// ForgotPassword starts the reset flow. The response is identical whether or
// not the address belongs to an account, so it cannot be used for enumeration.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	now := s.nowFn()
	token, err := randomToken(32)
	if err != nil {
		return err
	}
	user.IssueResetToken(token, now, s.cfg.ResetTokenTTL)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	resetLink := strings.TrimRight(s.cfg.ClientURL, "/") + "/reset-password?token=" + token
	s.sendMail(ctx, passwordResetMail(s.cfg.AppName, user.Email, resetLink, s.cfg.ResetTokenTTL), "forgot_password")
	s.recordActivity(ctx, user.ID, domain.ActionPasswordReset, domain.ActivityStatusSuccess, "reset link requested", nil)
	return nil
}

// VerifyResetToken checks a token without consuming it, for the frontend's
// pre-flight before showing the new-password form.
func (s *Service) VerifyResetToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	user, err := s.users.GetByResetToken(ctx, strings.TrimSpace(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}
	if !user.ResetTokenValid(s.nowFn()) {
		return domain.ErrResetTokenInvalid
	}
	return nil
}

// ResetPassword consumes a reset token and installs a new password. The token
// is single-use: it is cleared in the same save as the hash update.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return fmt.Errorf("%w: token is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}
	now := s.nowFn()
	if !user.ResetTokenValid(now) {
		return domain.ErrResetTokenInvalid
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.ClearResetToken(now)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	_ = s.loginGuard.Clear(ctx, "login:"+user.Email)
	s.sendMail(ctx, passwordChangedMail(s.cfg.AppName, user.Email), "reset_password")
	s.recordActivity(ctx, user.ID, domain.ActionPasswordReset, domain.ActivityStatusSuccess, "password reset", nil)
	return nil
}

// ChangePassword is the authenticated variant; it requires the current
// password instead of a reset token.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return domain.ErrInvalidCredentials
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := s.nowFn()
	user.PasswordHash = hash
	user.ClearResetToken(now)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.sendMail(ctx, passwordChangedMail(s.cfg.AppName, user.Email), "change_password")
	s.recordActivity(ctx, user.ID, domain.ActionPasswordReset, domain.ActivityStatusSuccess, "password changed", nil)
	return nil
}
