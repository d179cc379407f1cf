package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email"`
	Username     *string   `gorm:"column:username"`
	PasswordHash string    `gorm:"column:password_hash"`
	IsActive     bool      `gorm:"column:is_active"`
	IsVerified   bool      `gorm:"column:is_verified"`

	OTPCode    *string    `gorm:"column:otp_code"`
	OTPExpires *time.Time `gorm:"column:otp_expires"`
	OTPPurpose *string    `gorm:"column:otp_purpose"`

	PendingEmail      *string    `gorm:"column:pending_email"`
	ResetToken        *string    `gorm:"column:reset_token"`
	ResetTokenExpires *time.Time `gorm:"column:reset_token_expires"`

	ProfilePicture *string `gorm:"column:profile_picture"`
	Language       string  `gorm:"column:language"`
	DefaultTone    string  `gorm:"column:default_tone"`
	AILearning     bool    `gorm:"column:ai_learning"`
	SaveHistory    bool    `gorm:"column:save_history"`

	LastLogin *time.Time `gorm:"column:last_login"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type envVarModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id"`
	Key            string    `gorm:"column:key"`
	EncryptedValue string    `gorm:"column:encrypted_value"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (envVarModel) TableName() string { return "environment_variables" }

type emailConfigModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	UserID            uuid.UUID `gorm:"column:user_id"`
	Email             string    `gorm:"column:email"`
	EncryptedPassword string    `gorm:"column:encrypted_password"`
	IsActive          bool      `gorm:"column:is_active"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (emailConfigModel) TableName() string { return "email_configs" }

type chatMessageModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id"`
	MessageID   string    `gorm:"column:message_id"`
	Content     string    `gorm:"column:content"`
	Sender      string    `gorm:"column:sender"`
	Tone        string    `gorm:"column:tone"`
	MessageType string    `gorm:"column:message_type"`
	EmailData   *string   `gorm:"column:email_data;type:jsonb"`
	Timestamp   time.Time `gorm:"column:timestamp"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (chatMessageModel) TableName() string { return "chat_messages" }

type emailMessageModel struct {
	ID                int64      `gorm:"column:id;primaryKey"`
	UserID            uuid.UUID  `gorm:"column:user_id"`
	EmailID           string     `gorm:"column:email_id"`
	ToEmail           string     `gorm:"column:to_email"`
	Subject           string     `gorm:"column:subject"`
	Body              string     `gorm:"column:body"`
	Tone              string     `gorm:"column:tone"`
	Prompt            string     `gorm:"column:prompt"`
	Status            string     `gorm:"column:status"`
	SentAt            *time.Time `gorm:"column:sent_at"`
	RegenerationCount int        `gorm:"column:regeneration_count"`
	Version           int        `gorm:"column:version"`
	Timestamp         time.Time  `gorm:"column:timestamp"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
}

func (emailMessageModel) TableName() string { return "email_messages" }

type activityModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id"`
	Action    string    `gorm:"column:action"`
	Status    string    `gorm:"column:status"`
	Message   string    `gorm:"column:message"`
	Details   *string   `gorm:"column:details;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (activityModel) TableName() string { return "activity_logs" }
