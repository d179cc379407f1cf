package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
	"github.com/mailagent/server/internal/ports"
)

type Config struct {
	TokenTTL             time.Duration
	OTPTTL               time.Duration
	ResetTokenTTL        time.Duration
	FailedLoginWindow    time.Duration
	FailedLoginThreshold int
	ActivityRetention    time.Duration
	ClientURL            string
	AppName              string
}

type Service struct {
	cfg          Config
	users        ports.UserRepository
	envVars      ports.EnvVarRepository
	emailConfigs ports.EmailConfigRepository
	chats        ports.ChatMessageRepository
	emails       ports.EmailMessageRepository
	activity     ports.ActivityRepository
	loginGuard   ports.LoginActivityStore
	hasher       ports.PasswordHasher
	tokenSigner  ports.TokenSigner
	cipher       ports.SecretCipher
	mailer       ports.MailSender
	userMail     ports.UserMailSender
	drafts       ports.DraftGenerator
	logger       *slog.Logger
	nowFn        func() time.Time
}

type Dependencies struct {
	Config       Config
	Users        ports.UserRepository
	EnvVars      ports.EnvVarRepository
	EmailConfigs ports.EmailConfigRepository
	Chats        ports.ChatMessageRepository
	Emails       ports.EmailMessageRepository
	Activity     ports.ActivityRepository
	LoginGuard   ports.LoginActivityStore
	Hasher       ports.PasswordHasher
	TokenSigner  ports.TokenSigner
	Cipher       ports.SecretCipher
	Mailer       ports.MailSender
	UserMail     ports.UserMailSender
	Drafts       ports.DraftGenerator
	Logger       *slog.Logger
}

func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:          deps.Config,
		users:        deps.Users,
		envVars:      deps.EnvVars,
		emailConfigs: deps.EmailConfigs,
		chats:        deps.Chats,
		emails:       deps.Emails,
		activity:     deps.Activity,
		loginGuard:   deps.LoginGuard,
		hasher:       deps.Hasher,
		tokenSigner:  deps.TokenSigner,
		cipher:       deps.Cipher,
		mailer:       deps.Mailer,
		userMail:     deps.UserMail,
		drafts:       deps.Drafts,
		logger:       logger,
		nowFn:        func() time.Time { return time.Now().UTC() },
	}
}

// recordActivity is best-effort: audit failures never fail the operation
// they describe.
func (s *Service) recordActivity(ctx context.Context, userID uuid.UUID, action, status, message string, details map[string]any) {
	var raw []byte
	if len(details) > 0 {
		raw, _ = json.Marshal(details)
	}
	err := s.activity.Insert(ctx, domain.ActivityEntry{
		UserID:    userID,
		Action:    action,
		Status:    status,
		Message:   message,
		Details:   raw,
		CreatedAt: s.nowFn(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "activity insert failed",
			slog.String("module", "application"),
			slog.String("operation", action),
			slog.String("error", err.Error()))
	}
}

func (s *Service) sendMail(ctx context.Context, mail ports.OutboundMail, operation string) {
	if err := s.mailer.Send(ctx, mail); err != nil {
		s.logger.ErrorContext(ctx, "mail delivery failed",
			slog.String("module", "application"),
			slog.String("operation", operation),
			slog.String("error", err.Error()))
	}
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return trimmed, nil
}

func normalizeUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) < 3 || len(trimmed) > 50 {
		return "", fmt.Errorf("%w: username must be 3-50 characters", domain.ErrInvalidInput)
	}
	for _, r := range trimmed {
		ok := r == '_' || r == '-' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return "", fmt.Errorf("%w: username contains invalid characters", domain.ErrInvalidInput)
		}
	}
	return trimmed, nil
}

func randomDigits(size int) (string, error) {
	if size <= 0 {
		size = 6
	}
	max := big.NewInt(1)
	for i := 0; i < size; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", size, n), nil
}

func randomToken(bytesLen int) (string, error) {
	raw := make([]byte, bytesLen)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
