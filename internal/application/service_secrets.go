package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
)

// maskSecret hides a plaintext secret for list views. Short values are fully
// masked so their length leaks nothing useful.
func maskSecret(plain string) string {
	if plain == "" {
		return ""
	}
	if len(plain) <= 8 {
		return strings.Repeat("•", len(plain))
	}
	return strings.Repeat("•", len(plain)-4) + plain[len(plain)-4:]
}

func validSecretKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is required", domain.ErrInvalidInput)
	}
	if len(key) > 100 {
		return fmt.Errorf("%w: key too long", domain.ErrInvalidInput)
	}
	for _, r := range key {
		ok := r == '_' || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return fmt.Errorf("%w: key must be uppercase letters, digits and underscores", domain.ErrInvalidInput)
		}
	}
	return nil
}

// PutSecret stores or replaces an environment variable, encrypted at rest.
func (s *Service) PutSecret(ctx context.Context, userID uuid.UUID, req PutSecretRequest) (SecretItem, error) {
	key := strings.ToUpper(strings.TrimSpace(req.Key))
	if err := validSecretKey(key); err != nil {
		return SecretItem{}, err
	}
	if req.Value == "" {
		return SecretItem{}, fmt.Errorf("%w: value is required", domain.ErrInvalidInput)
	}
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return SecretItem{}, err
	}

	sealed, err := s.cipher.Encrypt(req.Value)
	if err != nil {
		return SecretItem{}, fmt.Errorf("encrypt secret: %w", err)
	}

	now := s.nowFn()
	saved, err := s.envVars.Upsert(ctx, domain.EnvironmentVariable{
		UserID:         userID,
		Key:            key,
		EncryptedValue: sealed,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return SecretItem{}, err
	}

	s.recordActivity(ctx, userID, domain.ActionSecretUpdate, domain.ActivityStatusSuccess, "secret stored",
		map[string]any{"key": key})
	return SecretItem{Key: saved.Key, MaskedValue: maskSecret(req.Value), UpdatedAt: saved.UpdatedAt}, nil
}

// ListSecrets returns every stored variable with masked values.
func (s *Service) ListSecrets(ctx context.Context, userID uuid.UUID) ([]SecretItem, error) {
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return nil, err
	}
	vars, err := s.envVars.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]SecretItem, 0, len(vars))
	for _, v := range vars {
		plain, err := s.cipher.Decrypt(v.EncryptedValue)
		if err != nil {
			return nil, err
		}
		items = append(items, SecretItem{Key: v.Key, MaskedValue: maskSecret(plain), UpdatedAt: v.UpdatedAt})
	}
	return items, nil
}

// RevealSecret returns one variable decrypted, for explicit reveal actions.
func (s *Service) RevealSecret(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if err := validSecretKey(key); err != nil {
		return "", err
	}
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return "", err
	}
	v, err := s.envVars.GetByKey(ctx, userID, key)
	if err != nil {
		return "", err
	}
	return s.cipher.Decrypt(v.EncryptedValue)
}

func (s *Service) DeleteSecret(ctx context.Context, userID uuid.UUID, key string) error {
	key = strings.ToUpper(strings.TrimSpace(key))
	if err := validSecretKey(key); err != nil {
		return err
	}
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return err
	}
	if err := s.envVars.Delete(ctx, userID, key); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, domain.ActionSecretUpdate, domain.ActivityStatusSuccess, "secret deleted",
		map[string]any{"key": key})
	return nil
}

// PutEmailConfig stores the user's outbound SMTP identity. The stored config
// becomes the active one.
func (s *Service) PutEmailConfig(ctx context.Context, userID uuid.UUID, req EmailConfigRequest) (EmailConfigItem, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return EmailConfigItem{}, err
	}
	if req.Password == "" {
		return EmailConfigItem{}, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return EmailConfigItem{}, err
	}

	sealed, err := s.cipher.Encrypt(req.Password)
	if err != nil {
		return EmailConfigItem{}, fmt.Errorf("encrypt password: %w", err)
	}

	now := s.nowFn()
	saved, err := s.emailConfigs.Upsert(ctx, domain.EmailConfig{
		UserID:            userID,
		Email:             email,
		EncryptedPassword: sealed,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		return EmailConfigItem{}, err
	}

	s.recordActivity(ctx, userID, domain.ActionSecretUpdate, domain.ActivityStatusSuccess, "email config stored",
		map[string]any{"email": email})
	return EmailConfigItem{
		Email:          saved.Email,
		MaskedPassword: maskSecret(req.Password),
		IsActive:       saved.IsActive,
		UpdatedAt:      saved.UpdatedAt,
	}, nil
}

// ActiveEmailConfig returns the active SMTP identity with a masked password.
func (s *Service) ActiveEmailConfig(ctx context.Context, userID uuid.UUID) (EmailConfigItem, error) {
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return EmailConfigItem{}, err
	}
	cfg, err := s.emailConfigs.GetActive(ctx, userID)
	if err != nil {
		return EmailConfigItem{}, err
	}
	plain, err := s.cipher.Decrypt(cfg.EncryptedPassword)
	if err != nil {
		return EmailConfigItem{}, err
	}
	return EmailConfigItem{
		Email:          cfg.Email,
		MaskedPassword: maskSecret(plain),
		IsActive:       cfg.IsActive,
		UpdatedAt:      cfg.UpdatedAt,
	}, nil
}

func (s *Service) DeleteEmailConfig(ctx context.Context, userID uuid.UUID, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if _, err := s.CurrentUser(ctx, userID); err != nil {
		return err
	}
	if err := s.emailConfigs.Delete(ctx, userID, normalized); err != nil {
		return err
	}
	s.recordActivity(ctx, userID, domain.ActionSecretUpdate, domain.ActivityStatusSuccess, "email config deleted",
		map[string]any{"email": normalized})
	return nil
}
