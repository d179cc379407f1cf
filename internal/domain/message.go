package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one turn of a user's assistant conversation.
// MessageID is client-generated so the frontend can reconcile optimistic sends.
type ChatMessage struct {
	ID          int64
	UserID      uuid.UUID
	MessageID   string
	Content     string
	Sender      string
	Tone        string
	MessageType string
	EmailData   []byte
	Timestamp   time.Time
	CreatedAt   time.Time
}

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"

	MessageTypeText  = "text"
	MessageTypeEmail = "email"
)

// EmailMessage is a drafted or sent email kept in the user's history.
type EmailMessage struct {
	ID                int64
	UserID            uuid.UUID
	EmailID           string
	ToEmail           string
	Subject           string
	Body              string
	Tone              string
	Prompt            string
	Status            string
	SentAt            *time.Time
	RegenerationCount int
	Version           int
	Timestamp         time.Time
	CreatedAt         time.Time
}

const (
	EmailStatusUnsent = "unsent"
	EmailStatusSent   = "sent"
)
