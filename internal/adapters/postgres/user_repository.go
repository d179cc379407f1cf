package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mailagent/server/internal/domain"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	rec := toUserModel(user)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return domain.User{}, duplicateUserKeyError(constraint)
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("reset_token = ?", token).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) Save(ctx context.Context, user domain.User) error {
	rec := toUserModel(user)
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", user.ID).
		Select("*").
		Omit("user_id", "created_at").
		Updates(&rec)
	if res.Error != nil {
		if constraint, ok := uniqueViolation(res.Error); ok {
			return duplicateUserKeyError(constraint)
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) ClearExpiredOneTimeState(ctx context.Context, now time.Time) (int64, error) {
	var total int64

	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("otp_expires IS NOT NULL").
		Where("otp_expires < ?", now).
		Updates(map[string]any{
			"otp_code":    nil,
			"otp_expires": nil,
			"otp_purpose": nil,
			"updated_at":  now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	total += res.RowsAffected

	res = r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("reset_token_expires IS NOT NULL").
		Where("reset_token_expires < ?", now).
		Updates(map[string]any{
			"reset_token":         nil,
			"reset_token_expires": nil,
			"updated_at":          now,
		})
	if res.Error != nil {
		return total, res.Error
	}
	total += res.RowsAffected
	return total, nil
}
