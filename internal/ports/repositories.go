package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mailagent/server/internal/domain"
)

// UserRepository defines persistence for account aggregates.
// Save is a full-row update: account mutations are read-modify-write with
// last-write-wins semantics, an accepted trade-off for this workload.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	// GetByResetToken is lookup-by-token: the reset requester does not
	// authenticate first.
	GetByResetToken(ctx context.Context, token string) (domain.User, error)
	Save(ctx context.Context, user domain.User) error
	// ClearExpiredOneTimeState drops OTP triads and reset tokens whose expiry
	// has passed, returning the number of rows touched.
	ClearExpiredOneTimeState(ctx context.Context, now time.Time) (int64, error)
}

// EnvVarRepository stores encrypted per-user environment variables.
type EnvVarRepository interface {
	Upsert(ctx context.Context, v domain.EnvironmentVariable) (domain.EnvironmentVariable, error)
	GetByKey(ctx context.Context, userID uuid.UUID, key string) (domain.EnvironmentVariable, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.EnvironmentVariable, error)
	Delete(ctx context.Context, userID uuid.UUID, key string) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// EmailConfigRepository stores per-user SMTP identities.
// One active config per user; Upsert replaces by (user, email).
type EmailConfigRepository interface {
	Upsert(ctx context.Context, cfg domain.EmailConfig) (domain.EmailConfig, error)
	GetActive(ctx context.Context, userID uuid.UUID) (domain.EmailConfig, error)
	Delete(ctx context.Context, userID uuid.UUID, email string) error
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// HistoryPage bounds timestamp-windowed history queries.
// Before/After support scroll-up and live-update pagination respectively.
type HistoryPage struct {
	Limit  int
	Before *time.Time
	After  *time.Time
}

// ChatMessageRepository persists assistant conversation history.
type ChatMessageRepository interface {
	Insert(ctx context.Context, msg domain.ChatMessage) (domain.ChatMessage, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page HistoryPage) ([]domain.ChatMessage, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// EmailMessageUpdate carries the mutable fields of a history entry.
// Pointer fields distinguish "leave unchanged" from an explicit new value.
type EmailMessageUpdate struct {
	Status              *string
	Body                *string
	Subject             *string
	ToEmail             *string
	IncrementRegenCount bool
	IncrementVersion    bool
	SentAt              *time.Time
}

// EmailMessageRepository persists drafted/sent email history.
type EmailMessageRepository interface {
	Insert(ctx context.Context, msg domain.EmailMessage) (domain.EmailMessage, error)
	GetByEmailID(ctx context.Context, userID uuid.UUID, emailID string) (domain.EmailMessage, error)
	Update(ctx context.Context, userID uuid.UUID, emailID string, update EmailMessageUpdate) (domain.EmailMessage, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page HistoryPage) ([]domain.EmailMessage, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountDelivered(ctx context.Context, userID uuid.UUID) (int64, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.EmailMessage, error)
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ActivityQuery filters the audit feed.
type ActivityQuery struct {
	Limit  int
	Offset int
	Action string
	Status string
	Since  *time.Time
}

// ActivityRepository is the audit-logging sink and its query side.
type ActivityRepository interface {
	Insert(ctx context.Context, entry domain.ActivityEntry) error
	ListByUser(ctx context.Context, userID uuid.UUID, q ActivityQuery) ([]domain.ActivityEntry, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteAllByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
