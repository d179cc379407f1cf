package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mailagent/server/internal/domain"
)

func toUserModel(u domain.User) userModel {
	rec := userModel{
		UserID:            u.ID,
		Email:             u.Email,
		Username:          u.Username,
		PasswordHash:      u.PasswordHash,
		IsActive:          u.IsActive,
		IsVerified:        u.IsVerified,
		OTPCode:           u.OTPCode,
		OTPExpires:        u.OTPExpires,
		PendingEmail:      u.PendingEmail,
		ResetToken:        u.ResetToken,
		ResetTokenExpires: u.ResetTokenExpires,
		ProfilePicture:    u.ProfilePicture,
		Language:          u.Language,
		DefaultTone:       u.DefaultTone,
		AILearning:        u.AILearning,
		SaveHistory:       u.SaveHistory,
		LastLogin:         u.LastLogin,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	if u.OTPPurpose != nil {
		raw := string(*u.OTPPurpose)
		rec.OTPPurpose = &raw
	}
	return rec
}

func toDomainUser(row userModel) domain.User {
	u := domain.User{
		ID:                row.UserID,
		Email:             row.Email,
		Username:          row.Username,
		PasswordHash:      row.PasswordHash,
		IsActive:          row.IsActive,
		IsVerified:        row.IsVerified,
		OTPCode:           row.OTPCode,
		OTPExpires:        row.OTPExpires,
		PendingEmail:      row.PendingEmail,
		ResetToken:        row.ResetToken,
		ResetTokenExpires: row.ResetTokenExpires,
		ProfilePicture:    row.ProfilePicture,
		Language:          row.Language,
		DefaultTone:       row.DefaultTone,
		AILearning:        row.AILearning,
		SaveHistory:       row.SaveHistory,
		LastLogin:         row.LastLogin,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
	if row.OTPPurpose != nil {
		purpose := domain.OTPPurpose(*row.OTPPurpose)
		u.OTPPurpose = &purpose
	}
	return u
}

func toDomainEnvVar(row envVarModel) domain.EnvironmentVariable {
	return domain.EnvironmentVariable{
		ID:             row.ID,
		UserID:         row.UserID,
		Key:            row.Key,
		EncryptedValue: row.EncryptedValue,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func toDomainEmailConfig(row emailConfigModel) domain.EmailConfig {
	return domain.EmailConfig{
		ID:                row.ID,
		UserID:            row.UserID,
		Email:             row.Email,
		EncryptedPassword: row.EncryptedPassword,
		IsActive:          row.IsActive,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
}

func toDomainChatMessage(row chatMessageModel) domain.ChatMessage {
	msg := domain.ChatMessage{
		ID:          row.ID,
		UserID:      row.UserID,
		MessageID:   row.MessageID,
		Content:     row.Content,
		Sender:      row.Sender,
		Tone:        row.Tone,
		MessageType: row.MessageType,
		Timestamp:   row.Timestamp,
		CreatedAt:   row.CreatedAt,
	}
	if row.EmailData != nil {
		msg.EmailData = []byte(*row.EmailData)
	}
	return msg
}

func toDomainEmailMessage(row emailMessageModel) domain.EmailMessage {
	return domain.EmailMessage{
		ID:                row.ID,
		UserID:            row.UserID,
		EmailID:           row.EmailID,
		ToEmail:           row.ToEmail,
		Subject:           row.Subject,
		Body:              row.Body,
		Tone:              row.Tone,
		Prompt:            row.Prompt,
		Status:            row.Status,
		SentAt:            row.SentAt,
		RegenerationCount: row.RegenerationCount,
		Version:           row.Version,
		Timestamp:         row.Timestamp,
		CreatedAt:         row.CreatedAt,
	}
}

func toDomainActivity(row activityModel) domain.ActivityEntry {
	entry := domain.ActivityEntry{
		ID:        row.ID,
		UserID:    row.UserID,
		Action:    row.Action,
		Status:    row.Status,
		Message:   row.Message,
		CreatedAt: row.CreatedAt,
	}
	if row.Details != nil {
		entry.Details = []byte(*row.Details)
	}
	return entry
}

func nullableJSON(raw []byte) *string {
	if len(raw) == 0 {
		return nil
	}
	s := string(raw)
	return &s
}

const pgUniqueViolation = "23505"

// uniqueViolation reports whether err is a Postgres unique-index violation
// and names the violated constraint.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func isUniqueViolation(err error) bool {
	_, ok := uniqueViolation(err)
	return ok
}

// duplicateUserKeyError maps the violated users index to its domain sentinel.
// A racing username or reset-token collision must not surface as a duplicate
// email.
func duplicateUserKeyError(constraint string) error {
	switch {
	case strings.Contains(constraint, "email"):
		return domain.ErrDuplicateEmail
	case strings.Contains(constraint, "username"):
		return domain.ErrDuplicateUsername
	default:
		return domain.ErrConflict
	}
}
