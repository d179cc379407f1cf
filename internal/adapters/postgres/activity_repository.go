package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mailagent/server/internal/domain"
	"github.com/mailagent/server/internal/ports"
)

type activityRepository struct {
	db *gorm.DB
}

func (r *activityRepository) Insert(ctx context.Context, entry domain.ActivityEntry) error {
	rec := activityModel{
		UserID:    entry.UserID,
		Action:    entry.Action,
		Status:    entry.Status,
		Message:   entry.Message,
		Details:   nullableJSON(entry.Details),
		CreatedAt: entry.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uuid.UUID, q ports.ActivityQuery) ([]domain.ActivityEntry, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if action := strings.TrimSpace(q.Action); action != "" {
		query = query.Where("action = ?", strings.ToUpper(action))
	}
	if status := strings.TrimSpace(q.Status); status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}
	if q.Since != nil {
		query = query.Where("created_at >= ?", *q.Since)
	}

	var rows []activityModel
	if err := query.Order("created_at DESC, id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ActivityEntry, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainActivity(row))
	}
	return result, nil
}

func (r *activityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&activityModel{})
	return res.RowsAffected, res.Error
}

func (r *activityRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&activityModel{})
	return res.RowsAffected, res.Error
}
