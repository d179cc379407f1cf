package ports

import "context"

// OutboundMail is a fully rendered message ready for delivery.
type OutboundMail struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// MailSender delivers transactional mail on behalf of the platform.
type MailSender interface {
	Send(ctx context.Context, mail OutboundMail) error
}

// SMTPIdentity is a user's own outbound identity, already decrypted.
type SMTPIdentity struct {
	Email    string
	Password string
}

// UserMailSender delivers mail authenticated as the user rather than the
// platform, for the assistant's send-email feature.
type UserMailSender interface {
	SendFrom(ctx context.Context, identity SMTPIdentity, mail OutboundMail) error
}
