package mail

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailagent/server/internal/ports"
)

// SMTPSender delivers platform mail through a single configured account
// using SMTP with STARTTLS on the submission port.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	userHost string
	timeout  time.Duration
	logger   *slog.Logger
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// UserHost is the submission host for user-credential sends. User email
	// configs carry Gmail app passwords, so it defaults to Gmail.
	UserHost string
	Timeout  time.Duration
}

func NewSMTPSender(cfg SMTPConfig, logger *slog.Logger) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.UserHost == "" {
		cfg.UserHost = "smtp.gmail.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		fromName: cfg.FromName,
		userHost: cfg.UserHost,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
}

func (s *SMTPSender) Send(ctx context.Context, m ports.OutboundMail) error {
	return s.deliver(ctx, s.host, s.port, s.username, s.password, s.from, s.fromName, m)
}

// SendFrom delivers mail authenticated with the user's own credentials
// against the same SMTP host. Used for assistant-composed emails.
func (s *SMTPSender) SendFrom(ctx context.Context, identity ports.SMTPIdentity, m ports.OutboundMail) error {
	return s.deliver(ctx, s.userHost, 587, identity.Email, identity.Password, identity.Email, "", m)
}

func (s *SMTPSender) deliver(ctx context.Context, host string, port int, username, password, from, fromName string, m ports.OutboundMail) error {
	if m.To == "" {
		return fmt.Errorf("smtp send: recipient is empty")
	}

	addr := fmt.Sprintf("%s:%d", host, port)
	auth := smtp.PlainAuth("", username, password, host)
	body := buildMessage(from, fromName, m)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, from, []string{m.To}, body)
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		s.logger.InfoContext(ctx, "mail delivered",
			"module", "mail",
			"layer", "adapter",
			"operation", "send",
			"outcome", "success",
		)
		return nil
	case <-timer.C:
		return fmt.Errorf("smtp send: timeout after %s", s.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// buildMessage renders an RFC 5322 message. When both bodies are present the
// message is multipart/alternative with the HTML part last.
func buildMessage(from, fromName string, m ports.OutboundMail) []byte {
	var b strings.Builder

	fromHeader := from
	if fromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", fromName), from)
	}
	fmt.Fprintf(&b, "From: %s\r\n", fromHeader)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", m.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case m.HTMLBody != "" && m.TextBody != "":
		boundary := "=_mailagent_alt"
		fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, m.TextBody)
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, m.HTMLBody)
		fmt.Fprintf(&b, "--%s--\r\n", boundary)
	case m.HTMLBody != "":
		fmt.Fprintf(&b, "Content-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", m.HTMLBody)
	default:
		fmt.Fprintf(&b, "Content-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", m.TextBody)
	}
	return []byte(b.String())
}

var (
	_ ports.MailSender     = (*SMTPSender)(nil)
	_ ports.UserMailSender = (*SMTPSender)(nil)
)
