package mail

import (
	"context"
	"log/slog"

	"github.com/mailagent/server/internal/ports"
)

// LogSender stands in when no SMTP host is configured. It logs the message
// envelope so local flows remain testable without a mail account.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, m ports.OutboundMail) error {
	s.logger.InfoContext(ctx, "mail suppressed (no smtp configured)",
		"module", "mail",
		"layer", "adapter",
		"operation", "send",
		"outcome", "skipped",
		"to", m.To,
		"subject", m.Subject,
	)
	return nil
}

var _ ports.MailSender = (*LogSender)(nil)
