package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEntry records a user-scoped audit event.
// The reason for an explicit model is to keep the activity feed queryable
// independently of server log output.
type ActivityEntry struct {
	ID        int64
	UserID    uuid.UUID
	Action    string
	Status    string
	Message   string
	Details   []byte
	CreatedAt time.Time
}

const (
	ActivityStatusSuccess = "SUCCESS"
	ActivityStatusFailure = "FAILURE"
	ActivityStatusWarning = "WARNING"
)

const (
	ActionRegister       = "REGISTER"
	ActionLogin          = "LOGIN"
	ActionLogout         = "LOGOUT"
	ActionVerifyEmail    = "VERIFY_EMAIL"
	ActionResendOTP      = "RESEND_OTP"
	ActionPasswordReset  = "PASSWORD_RESET"
	ActionEmailChange    = "EMAIL_CHANGE"
	ActionDataDeletion   = "DATA_DELETION"
	ActionProfileUpdate  = "PROFILE_UPDATE"
	ActionSecretUpdate   = "SECRET_UPDATE"
	ActionChatGenerate   = "CHAT_GENERATE"
	ActionEmailGenerate  = "EMAIL_GENERATE"
	ActionEmailSend      = "EMAIL_SEND"
	ActionHistoryCleared = "HISTORY_CLEARED"
)
