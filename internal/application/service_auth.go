package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
	"github.com/mailagent/server/internal/ports"
)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return RegisterResponse{}, err
	}
	username, err := normalizeUsername(req.Username)
	if err != nil {
		return RegisterResponse{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return RegisterResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return RegisterResponse{}, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return RegisterResponse{}, err
	}
	if username != "" {
		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			return RegisterResponse{}, domain.ErrDuplicateUsername
		} else if !errors.Is(err, domain.ErrNotFound) {
			return RegisterResponse{}, err
		}
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	user := domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		IsVerified:   false,
		Language:     domain.DefaultLanguage,
		DefaultTone:  domain.DefaultTone,
		AILearning:   true,
		SaveHistory:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if username != "" {
		user.Username = &username
	}

	code, err := randomDigits(6)
	if err != nil {
		return RegisterResponse{}, err
	}
	user.IssueOTP(code, domain.PurposeEmailVerification, now, s.cfg.OTPTTL)

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return RegisterResponse{}, err
	}

	s.sendMail(ctx, verificationMail(s.cfg.AppName, created.Email, code, s.cfg.OTPTTL), "register")
	s.recordActivity(ctx, created.ID, domain.ActionRegister, domain.ActivityStatusSuccess, "account created", nil)

	return RegisterResponse{UserID: created.ID, Email: created.Email, RequiresVerification: true}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, err
	}

	guardKey := "login:" + email
	now := s.nowFn()
	if failures, guardErr := s.loginGuard.FailuresSince(ctx, guardKey, now.Add(-s.cfg.FailedLoginWindow)); guardErr == nil {
		if failures >= s.cfg.FailedLoginThreshold {
			s.logger.WarnContext(ctx, "suspicious sign-in activity",
				slog.String("module", "application"),
				slog.String("operation", "login"),
				slog.Int("recent_failures", failures))
		}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.loginGuard.RecordFailure(ctx, guardKey, now)
			return LoginResponse{}, domain.ErrInvalidCredentials
		}
		return LoginResponse{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		_ = s.loginGuard.RecordFailure(ctx, guardKey, now)
		s.recordActivity(ctx, user.ID, domain.ActionLogin, domain.ActivityStatusFailure, "invalid password", nil)
		return LoginResponse{}, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return LoginResponse{}, domain.ErrAccountInactive
	}
	if !user.IsVerified {
		return LoginResponse{}, domain.ErrEmailNotVerified
	}

	_ = s.loginGuard.Clear(ctx, guardKey)

	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.users.Save(ctx, user); err != nil {
		return LoginResponse{}, err
	}

	token, err := s.issueToken(user, now)
	if err != nil {
		return LoginResponse{}, err
	}

	s.recordActivity(ctx, user.ID, domain.ActionLogin, domain.ActivityStatusSuccess, "signed in", nil)
	return LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int64(s.cfg.TokenTTL.Seconds()),
		User:      toProfileItem(user),
	}, nil
}

func (s *Service) issueToken(user domain.User, now time.Time) (string, error) {
	claims := ports.AuthClaims{
		UserID:    user.ID,
		Email:     user.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}
	if user.Username != nil {
		claims.Username = *user.Username
	}
	token, err := s.tokenSigner.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// VerifyEmail consumes the verification code issued at registration.
func (s *Service) VerifyEmail(ctx context.Context, req VerifyOTPRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, err
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return LoginResponse{}, fmt.Errorf("%w: otp is required", domain.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LoginResponse{}, domain.ErrNoCodePending
		}
		return LoginResponse{}, err
	}
	if user.IsVerified {
		return LoginResponse{}, domain.ErrAlreadyVerified
	}

	now := s.nowFn()
	if err := user.VerifyOTP(code, domain.PurposeEmailVerification, now); err != nil {
		s.recordActivity(ctx, user.ID, domain.ActionVerifyEmail, domain.ActivityStatusFailure, "verification failed", nil)
		return LoginResponse{}, err
	}

	user.IsVerified = true
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.users.Save(ctx, user); err != nil {
		return LoginResponse{}, err
	}

	token, err := s.issueToken(user, now)
	if err != nil {
		return LoginResponse{}, err
	}

	s.sendMail(ctx, welcomeMail(s.cfg.AppName, user.Email, user.DisplayName(), s.cfg.ClientURL), "verify_email")
	s.recordActivity(ctx, user.ID, domain.ActionVerifyEmail, domain.ActivityStatusSuccess, "email verified", nil)

	return LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int64(s.cfg.TokenTTL.Seconds()),
		User:      toProfileItem(user),
	}, nil
}

// ResendVerification issues a fresh code, invalidating the previous one.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	now := s.nowFn()
	code, err := randomDigits(6)
	if err != nil {
		return err
	}
	user.IssueOTP(code, domain.PurposeEmailVerification, now, s.cfg.OTPTTL)
	user.UpdatedAt = now
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	s.sendMail(ctx, verificationMail(s.cfg.AppName, user.Email, code, s.cfg.OTPTTL), "resend_otp")
	s.recordActivity(ctx, user.ID, domain.ActionResendOTP, domain.ActivityStatusSuccess, "verification code resent", nil)
	return nil
}

// Logout records the sign-out. Tokens are stateless, so invalidation is the
// client discarding its copy; the server only keeps the audit trail.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, domain.ActionLogout, domain.ActivityStatusSuccess, "signed out", nil)
	return nil
}

// ValidateToken checks a bearer token and returns its claims.
func (s *Service) ValidateToken(ctx context.Context, token string) (ports.AuthClaims, error) {
	claims, err := s.tokenSigner.ParseAndValidate(token)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrTokenInvalid
	}
	return claims, nil
}

// CurrentUser resolves the authenticated account, rejecting deactivated ones.
func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	if !user.IsActive {
		return domain.User{}, domain.ErrAccountInactive
	}
	return user, nil
}
