package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
)

// IssuePurposeCode arms a confirmation code for a sensitive account action.
// For email changes, the code is delivered to the NEW address so the flow
// also proves the user controls it.
func (s *Service) IssuePurposeCode(ctx context.Context, userID uuid.UUID, req PurposeCodeRequest) error {
	purpose := domain.OTPPurpose(strings.TrimSpace(req.Purpose))
	if !domain.ValidOTPPurpose(string(purpose)) || purpose == domain.PurposeEmailVerification {
		return fmt.Errorf("%w: unsupported purpose", domain.ErrInvalidInput)
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}

	now := s.nowFn()
	code, err := randomDigits(6)
	if err != nil {
		return err
	}
	deliverTo := user.Email

	switch purpose {
	case domain.PurposeEmailChange:
		newEmail, err := normalizeEmail(req.NewEmail)
		if err != nil {
			return fmt.Errorf("%w: new_email is required", domain.ErrInvalidInput)
		}
		if newEmail == user.Email {
			return fmt.Errorf("%w: new email matches current email", domain.ErrInvalidInput)
		}
		if _, err := s.users.GetByEmail(ctx, newEmail); err == nil {
			return domain.ErrDuplicateEmail
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		user.PendingEmail = &newEmail
		deliverTo = newEmail
	case domain.PurposeDataDeletion:
		// Code goes to the account's own address.
	}

	user.IssueOTP(code, purpose, now, s.cfg.OTPTTL)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	headline, warning := purposeMailCopy(purpose)
	s.sendMail(ctx, purposeCodeMail(s.cfg.AppName, deliverTo, code, headline, warning, s.cfg.OTPTTL), "issue_purpose_code")
	return nil
}

// ConfirmPurposeCode consumes a purpose code and applies its effect.
func (s *Service) ConfirmPurposeCode(ctx context.Context, userID uuid.UUID, req ConfirmPurposeCodeRequest) error {
	purpose := domain.OTPPurpose(strings.TrimSpace(req.Purpose))
	if !domain.ValidOTPPurpose(string(purpose)) || purpose == domain.PurposeEmailVerification {
		return fmt.Errorf("%w: unsupported purpose", domain.ErrInvalidInput)
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return fmt.Errorf("%w: otp is required", domain.ErrInvalidInput)
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}

	now := s.nowFn()
	if err := user.VerifyOTP(code, purpose, now); err != nil {
		return err
	}

	switch purpose {
	case domain.PurposeEmailChange:
		return s.applyEmailChange(ctx, user)
	case domain.PurposeDataDeletion:
		return s.applyDataDeletion(ctx, user)
	default:
		return fmt.Errorf("%w: unsupported purpose", domain.ErrInvalidInput)
	}
}

func (s *Service) applyEmailChange(ctx context.Context, user domain.User) error {
	if user.PendingEmail == nil || *user.PendingEmail == "" {
		return domain.ErrNoCodePending
	}
	newEmail := *user.PendingEmail

	// Re-check uniqueness: another account may have claimed the address
	// between code issuance and confirmation.
	if _, err := s.users.GetByEmail(ctx, newEmail); err == nil {
		return domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	oldEmail := user.Email
	user.Email = newEmail
	user.PendingEmail = nil
	user.UpdatedAt = s.nowFn()
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	_ = s.loginGuard.Clear(ctx, "login:"+oldEmail)
	s.recordActivity(ctx, user.ID, domain.ActionEmailChange, domain.ActivityStatusSuccess, "email address changed",
		map[string]any{"old_email": oldEmail, "new_email": newEmail})
	return nil
}

// applyDataDeletion purges the account's assistant history, secrets and audit
// trail, leaving the account itself intact.
func (s *Service) applyDataDeletion(ctx context.Context, user domain.User) error {
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	chatN, err := s.chats.DeleteAllByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	emailN, err := s.emails.DeleteAllByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	secretN, err := s.envVars.DeleteAllByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	configN, err := s.emailConfigs.DeleteAllByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	if _, err := s.activity.DeleteAllByUser(ctx, user.ID); err != nil {
		return err
	}

	s.recordActivity(ctx, user.ID, domain.ActionDataDeletion, domain.ActivityStatusSuccess, "user data purged",
		map[string]any{
			"chat_messages": chatN,
			"emails":        emailN,
			"secrets":       secretN,
			"email_configs": configN,
		})
	return nil
}

func purposeMailCopy(purpose domain.OTPPurpose) (headline, warning string) {
	switch purpose {
	case domain.PurposeEmailChange:
		return "Confirm your new email address",
			"If you did not request an email change, secure your account now."
	case domain.PurposeDataDeletion:
		return "Confirm data deletion",
			"This permanently deletes your chat history, email history and stored secrets. If this was not you, change your password."
	default:
		return "Confirmation code", ""
	}
}
