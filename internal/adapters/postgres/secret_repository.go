package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mailagent/server/internal/domain"
)

type envVarRepository struct {
	db *gorm.DB
}

func (r *envVarRepository) Upsert(ctx context.Context, v domain.EnvironmentVariable) (domain.EnvironmentVariable, error) {
	rec := envVarModel{
		UserID:         v.UserID,
		Key:            v.Key,
		EncryptedValue: v.EncryptedValue,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "key"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"encrypted_value": rec.EncryptedValue,
			"updated_at":      rec.UpdatedAt,
		}),
	}).Create(&rec).Error
	if err != nil {
		return domain.EnvironmentVariable{}, err
	}
	return r.GetByKey(ctx, v.UserID, v.Key)
}

func (r *envVarRepository) GetByKey(ctx context.Context, userID uuid.UUID, key string) (domain.EnvironmentVariable, error) {
	var rec envVarModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("key = ?", key).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.EnvironmentVariable{}, domain.ErrNotFound
		}
		return domain.EnvironmentVariable{}, err
	}
	return toDomainEnvVar(rec), nil
}

func (r *envVarRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.EnvironmentVariable, error) {
	var rows []envVarModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("key ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.EnvironmentVariable, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainEnvVar(row))
	}
	return result, nil
}

func (r *envVarRepository) Delete(ctx context.Context, userID uuid.UUID, key string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("key = ?", key).
		Delete(&envVarModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *envVarRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&envVarModel{})
	return res.RowsAffected, res.Error
}

type emailConfigRepository struct {
	db *gorm.DB
}

// Upsert replaces by (user, email) and makes the stored row the single
// active config for the user.
func (r *emailConfigRepository) Upsert(ctx context.Context, cfg domain.EmailConfig) (domain.EmailConfig, error) {
	rec := emailConfigModel{
		UserID:            cfg.UserID,
		Email:             cfg.Email,
		EncryptedPassword: cfg.EncryptedPassword,
		IsActive:          true,
		CreatedAt:         cfg.CreatedAt,
		UpdatedAt:         cfg.UpdatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&emailConfigModel{}).
			Where("user_id = ?", cfg.UserID).
			Where("is_active = TRUE").
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "email"},
			},
			DoUpdates: clause.Assignments(map[string]any{
				"encrypted_password": rec.EncryptedPassword,
				"is_active":          true,
				"updated_at":         rec.UpdatedAt,
			}),
		}).Create(&rec).Error
	})
	if err != nil {
		return domain.EmailConfig{}, err
	}
	return r.GetActive(ctx, cfg.UserID)
}

func (r *emailConfigRepository) GetActive(ctx context.Context, userID uuid.UUID) (domain.EmailConfig, error) {
	var rec emailConfigModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("is_active = TRUE").
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.EmailConfig{}, domain.ErrNotFound
		}
		return domain.EmailConfig{}, err
	}
	return toDomainEmailConfig(rec), nil
}

func (r *emailConfigRepository) Delete(ctx context.Context, userID uuid.UUID, email string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("email = ?", email).
		Delete(&emailConfigModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *emailConfigRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&emailConfigModel{})
	return res.RowsAffected, res.Error
}
