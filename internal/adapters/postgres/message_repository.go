package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mailagent/server/internal/domain"
	"github.com/mailagent/server/internal/ports"
)

type chatMessageRepository struct {
	db *gorm.DB
}

func (r *chatMessageRepository) Insert(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error) {
	rec := chatMessageModel{
		UserID:      msg.UserID,
		MessageID:   msg.MessageID,
		Content:     msg.Content,
		Sender:      msg.Sender,
		Tone:        msg.Tone,
		MessageType: msg.MessageType,
		EmailData:   nullableJSON(msg.EmailData),
		Timestamp:   msg.Timestamp,
		CreatedAt:   msg.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ChatMessage{}, domain.ErrConflict
		}
		return domain.ChatMessage{}, err
	}
	return toDomainChatMessage(rec), nil
}

func (r *chatMessageRepository) ListByUser(ctx context.Context, userID uuid.UUID, page ports.HistoryPage) ([]domain.ChatMessage, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if page.Before != nil {
		query = query.Where("timestamp < ?", *page.Before)
	}
	if page.After != nil {
		query = query.Where("timestamp > ?", *page.After)
	}

	var rows []chatMessageModel
	if err := query.Order("timestamp DESC, id DESC").Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ChatMessage, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainChatMessage(row))
	}
	return result, nil
}

func (r *chatMessageRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&chatMessageModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *chatMessageRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&chatMessageModel{})
	return res.RowsAffected, res.Error
}

type emailMessageRepository struct {
	db *gorm.DB
}

func (r *emailMessageRepository) Insert(ctx context.Context, msg domain.EmailMessage) (domain.EmailMessage, error) {
	rec := emailMessageModel{
		UserID:            msg.UserID,
		EmailID:           msg.EmailID,
		ToEmail:           msg.ToEmail,
		Subject:           msg.Subject,
		Body:              msg.Body,
		Tone:              msg.Tone,
		Prompt:            msg.Prompt,
		Status:            msg.Status,
		SentAt:            msg.SentAt,
		RegenerationCount: msg.RegenerationCount,
		Version:           msg.Version,
		Timestamp:         msg.Timestamp,
		CreatedAt:         msg.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.EmailMessage{}, domain.ErrConflict
		}
		return domain.EmailMessage{}, err
	}
	return toDomainEmailMessage(rec), nil
}

func (r *emailMessageRepository) GetByEmailID(ctx context.Context, userID uuid.UUID, emailID string) (domain.EmailMessage, error) {
	var rec emailMessageModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("email_id = ?", emailID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.EmailMessage{}, domain.ErrNotFound
		}
		return domain.EmailMessage{}, err
	}
	return toDomainEmailMessage(rec), nil
}

func (r *emailMessageRepository) Update(ctx context.Context, userID uuid.UUID, emailID string, update ports.EmailMessageUpdate) (domain.EmailMessage, error) {
	assignments := map[string]any{}
	if update.Status != nil {
		assignments["status"] = *update.Status
	}
	if update.Subject != nil {
		assignments["subject"] = *update.Subject
	}
	if update.Body != nil {
		assignments["body"] = *update.Body
	}
	if update.ToEmail != nil {
		assignments["to_email"] = *update.ToEmail
	}
	if update.SentAt != nil {
		assignments["sent_at"] = *update.SentAt
	}
	if update.IncrementRegenCount {
		assignments["regeneration_count"] = gorm.Expr("regeneration_count + 1")
	}
	if update.IncrementVersion {
		assignments["version"] = gorm.Expr("version + 1")
	}

	if len(assignments) > 0 {
		res := r.db.WithContext(ctx).
			Model(&emailMessageModel{}).
			Where("user_id = ?", userID).
			Where("email_id = ?", emailID).
			Updates(assignments)
		if res.Error != nil {
			return domain.EmailMessage{}, res.Error
		}
		if res.RowsAffected == 0 {
			return domain.EmailMessage{}, domain.ErrNotFound
		}
	}
	return r.GetByEmailID(ctx, userID, emailID)
}

func (r *emailMessageRepository) ListByUser(ctx context.Context, userID uuid.UUID, page ports.HistoryPage) ([]domain.EmailMessage, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if page.Before != nil {
		query = query.Where("timestamp < ?", *page.Before)
	}
	if page.After != nil {
		query = query.Where("timestamp > ?", *page.After)
	}

	var rows []emailMessageModel
	if err := query.Order("timestamp DESC, id DESC").Limit(page.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.EmailMessage, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainEmailMessage(row))
	}
	return result, nil
}

func (r *emailMessageRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&emailMessageModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *emailMessageRepository) CountDelivered(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&emailMessageModel{}).
		Where("user_id = ?", userID).
		Where("status = ?", domain.EmailStatusSent).
		Count(&count).Error
	return count, err
}

func (r *emailMessageRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.EmailMessage, error) {
	var rows []emailMessageModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.EmailMessage, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainEmailMessage(row))
	}
	return result, nil
}

func (r *emailMessageRepository) DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&emailMessageModel{})
	return res.RowsAffected, res.Error
}
