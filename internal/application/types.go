package application

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID               uuid.UUID `json:"user_id"`
	Email                string    `json:"email"`
	RequiresVerification bool      `json:"requires_verification"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"access_token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int64       `json:"expires_in"`
	User      ProfileItem `json:"user"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"otp"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ProfileItem struct {
	UserID         uuid.UUID  `json:"user_id"`
	Email          string     `json:"email"`
	Username       string     `json:"username,omitempty"`
	DisplayName    string     `json:"display_name"`
	IsVerified     bool       `json:"is_verified"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	Language       string     `json:"language"`
	DefaultTone    string     `json:"default_tone"`
	AILearning     bool       `json:"ai_learning"`
	SaveHistory    bool       `json:"save_history"`
	PendingEmail   string     `json:"pending_email,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// UpdateProfileRequest fields are tri-state: absent leaves the value
// unchanged, a pointer to "" clears it where clearing is allowed.
type UpdateProfileRequest struct {
	Username       *string `json:"username"`
	ProfilePicture *string `json:"profile_picture"`
	Language       *string `json:"language"`
	DefaultTone    *string `json:"default_tone"`
	AILearning     *bool   `json:"ai_learning"`
	SaveHistory    *bool   `json:"save_history"`
}

type PurposeCodeRequest struct {
	Purpose  string `json:"purpose"`
	NewEmail string `json:"new_email,omitempty"`
}

type ConfirmPurposeCodeRequest struct {
	Purpose string `json:"purpose"`
	Code    string `json:"otp"`
}

type SecretItem struct {
	Key         string    `json:"key"`
	MaskedValue string    `json:"value"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PutSecretRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type EmailConfigRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmailConfigItem struct {
	Email          string    `json:"email"`
	MaskedPassword string    `json:"password"`
	IsActive       bool      `json:"is_active"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type HistoryQuery struct {
	Limit  int
	Before *time.Time
	After  *time.Time
}

type ChatMessageItem struct {
	MessageID   string          `json:"message_id"`
	Content     string          `json:"content"`
	Sender      string          `json:"sender"`
	Tone        string          `json:"tone,omitempty"`
	MessageType string          `json:"message_type"`
	EmailData   json.RawMessage `json:"email_data,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

type EmailMessageItem struct {
	EmailID           string     `json:"email_id"`
	ToEmail           string     `json:"to_email"`
	Subject           string     `json:"subject"`
	Body              string     `json:"body"`
	Tone              string     `json:"tone,omitempty"`
	Prompt            string     `json:"prompt,omitempty"`
	Status            string     `json:"status"`
	SentAt            *time.Time `json:"sent_at,omitempty"`
	RegenerationCount int        `json:"regeneration_count"`
	Version           int        `json:"version"`
	Timestamp         time.Time  `json:"timestamp"`
}

type ChatRequest struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
	Tone      string `json:"tone"`
}

type ChatResponse struct {
	MessageID string    `json:"message_id"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

type ComposeEmailRequest struct {
	EmailID   string `json:"email_id"`
	Prompt    string `json:"prompt"`
	Tone      string `json:"tone"`
	Recipient string `json:"recipient"`
}

type SendEmailRequest struct {
	EmailID string `json:"email_id"`
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type ActivityItem struct {
	Action    string          `json:"action"`
	Status    string          `json:"status"`
	Message   string          `json:"message,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type ActivityListQuery struct {
	Limit  int
	Offset int
	Action string
	Status string
	Days   int
}

type UsageStats struct {
	ChatMessages int64 `json:"chat_messages"`
	EmailDrafts  int64 `json:"email_drafts"`
	EmailsSent   int64 `json:"emails_sent"`
}

func toProfileItem(u domain.User) ProfileItem {
	item := ProfileItem{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName(),
		IsVerified:  u.IsVerified,
		Language:    u.Language,
		DefaultTone: u.DefaultTone,
		AILearning:  u.AILearning,
		SaveHistory: u.SaveHistory,
		LastLogin:   u.LastLogin,
		CreatedAt:   u.CreatedAt,
	}
	if u.Username != nil {
		item.Username = *u.Username
	}
	if u.ProfilePicture != nil {
		item.ProfilePicture = *u.ProfilePicture
	}
	if u.PendingEmail != nil {
		item.PendingEmail = *u.PendingEmail
	}
	return item
}

func toChatMessageItem(m domain.ChatMessage) ChatMessageItem {
	return ChatMessageItem{
		MessageID:   m.MessageID,
		Content:     m.Content,
		Sender:      m.Sender,
		Tone:        m.Tone,
		MessageType: m.MessageType,
		EmailData:   m.EmailData,
		Timestamp:   m.Timestamp,
	}
}

func toEmailMessageItem(m domain.EmailMessage) EmailMessageItem {
	return EmailMessageItem{
		EmailID:           m.EmailID,
		ToEmail:           m.ToEmail,
		Subject:           m.Subject,
		Body:              m.Body,
		Tone:              m.Tone,
		Prompt:            m.Prompt,
		Status:            m.Status,
		SentAt:            m.SentAt,
		RegenerationCount: m.RegenerationCount,
		Version:           m.Version,
		Timestamp:         m.Timestamp,
	}
}
