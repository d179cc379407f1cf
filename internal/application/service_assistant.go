package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mailagent/server/internal/domain"
	"github.com/mailagent/server/internal/ports"
)

func (s *Service) resolveTone(user domain.User, requested string) (string, error) {
	tone := strings.ToLower(strings.TrimSpace(requested))
	if tone == "" {
		tone = user.DefaultTone
	}
	if !validTones[tone] {
		return "", fmt.Errorf("%w: unsupported tone", domain.ErrInvalidInput)
	}
	return tone, nil
}

// Chat generates an assistant reply to a conversational message. Both turns
// are persisted only when the account opted into history.
func (s *Service) Chat(ctx context.Context, userID uuid.UUID, req ChatRequest) (ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ChatResponse{}, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return ChatResponse{}, err
	}
	tone, err := s.resolveTone(user, req.Tone)
	if err != nil {
		return ChatResponse{}, err
	}

	reply, err := s.drafts.GenerateReply(ctx, ports.DraftRequest{Message: message, Tone: tone})
	if err != nil {
		s.recordActivity(ctx, userID, domain.ActionChatGenerate, domain.ActivityStatusFailure, "reply generation failed", nil)
		return ChatResponse{}, err
	}

	now := s.nowFn()
	messageID := strings.TrimSpace(req.MessageID)
	if messageID == "" {
		messageID = uuid.NewString()
	}
	replyID := uuid.NewString()

	if user.SaveHistory {
		_, err = s.chats.Insert(ctx, domain.ChatMessage{
			UserID:      userID,
			MessageID:   messageID,
			Content:     message,
			Sender:      domain.SenderUser,
			Tone:        tone,
			MessageType: domain.MessageTypeText,
			Timestamp:   now,
		})
		if err != nil && !errors.Is(err, domain.ErrConflict) {
			return ChatResponse{}, err
		}
		if _, err := s.chats.Insert(ctx, domain.ChatMessage{
			UserID:      userID,
			MessageID:   replyID,
			Content:     reply,
			Sender:      domain.SenderAssistant,
			Tone:        tone,
			MessageType: domain.MessageTypeText,
			Timestamp:   now,
		}); err != nil {
			return ChatResponse{}, err
		}
	}

	s.recordActivity(ctx, userID, domain.ActionChatGenerate, domain.ActivityStatusSuccess, "reply generated", nil)
	return ChatResponse{MessageID: replyID, Reply: reply, Timestamp: now}, nil
}

// ComposeEmail drafts a full email from a prompt. Re-composing an existing
// EmailID counts as a regeneration and bumps the draft version.
func (s *Service) ComposeEmail(ctx context.Context, userID uuid.UUID, req ComposeEmailRequest) (EmailMessageItem, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return EmailMessageItem{}, fmt.Errorf("%w: prompt is required", domain.ErrInvalidInput)
	}
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return EmailMessageItem{}, err
	}
	tone, err := s.resolveTone(user, req.Tone)
	if err != nil {
		return EmailMessageItem{}, err
	}
	recipient := strings.TrimSpace(req.Recipient)
	if recipient != "" {
		if recipient, err = normalizeEmail(recipient); err != nil {
			return EmailMessageItem{}, err
		}
	}

	draft, err := s.drafts.GenerateEmail(ctx, ports.EmailDraftRequest{Prompt: prompt, Tone: tone, Recipient: recipient})
	if err != nil {
		s.recordActivity(ctx, userID, domain.ActionEmailGenerate, domain.ActivityStatusFailure, "email generation failed", nil)
		return EmailMessageItem{}, err
	}
	if draft.To == "" {
		draft.To = recipient
	}

	now := s.nowFn()

	emailID := strings.TrimSpace(req.EmailID)
	if emailID != "" {
		existing, err := s.emails.GetByEmailID(ctx, userID, emailID)
		if err == nil {
			updated, err := s.emails.Update(ctx, userID, emailID, ports.EmailMessageUpdate{
				Subject:             &draft.Subject,
				Body:                &draft.Body,
				IncrementRegenCount: true,
				IncrementVersion:    true,
			})
			if err != nil {
				return EmailMessageItem{}, err
			}
			s.recordActivity(ctx, userID, domain.ActionEmailGenerate, domain.ActivityStatusSuccess, "email regenerated",
				map[string]any{"email_id": existing.EmailID})
			return toEmailMessageItem(updated), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return EmailMessageItem{}, err
		}
	} else {
		emailID = uuid.NewString()
	}

	msg := domain.EmailMessage{
		UserID:    userID,
		EmailID:   emailID,
		ToEmail:   draft.To,
		Subject:   draft.Subject,
		Body:      draft.Body,
		Tone:      tone,
		Prompt:    prompt,
		Status:    domain.EmailStatusUnsent,
		Version:   1,
		Timestamp: now,
	}

	if user.SaveHistory {
		saved, err := s.emails.Insert(ctx, msg)
		if err != nil {
			return EmailMessageItem{}, err
		}
		msg = saved

		emailData, _ := json.Marshal(map[string]any{
			"email_id": msg.EmailID,
			"to_email": msg.ToEmail,
			"subject":  msg.Subject,
			"body":     msg.Body,
		})
		if _, err := s.chats.Insert(ctx, domain.ChatMessage{
			UserID:      userID,
			MessageID:   uuid.NewString(),
			Content:     msg.Subject,
			Sender:      domain.SenderAssistant,
			Tone:        tone,
			MessageType: domain.MessageTypeEmail,
			EmailData:   emailData,
			Timestamp:   now,
		}); err != nil {
			return EmailMessageItem{}, err
		}
	}

	s.recordActivity(ctx, userID, domain.ActionEmailGenerate, domain.ActivityStatusSuccess, "email drafted",
		map[string]any{"email_id": msg.EmailID})
	return toEmailMessageItem(msg), nil
}

// SendEmail delivers a draft through the user's configured SMTP identity and
// marks it sent in history.
func (s *Service) SendEmail(ctx context.Context, userID uuid.UUID, req SendEmailRequest) (EmailMessageItem, error) {
	toEmail, err := normalizeEmail(req.ToEmail)
	if err != nil {
		return EmailMessageItem{}, err
	}
	subject := strings.TrimSpace(req.Subject)
	body := req.Body
	if subject == "" || strings.TrimSpace(body) == "" {
		return EmailMessageItem{}, fmt.Errorf("%w: subject and body are required", domain.ErrInvalidInput)
	}
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return EmailMessageItem{}, err
	}

	cfg, err := s.emailConfigs.GetActive(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return EmailMessageItem{}, fmt.Errorf("%w: no email configuration", domain.ErrInvalidInput)
		}
		return EmailMessageItem{}, err
	}
	password, err := s.cipher.Decrypt(cfg.EncryptedPassword)
	if err != nil {
		return EmailMessageItem{}, err
	}

	if err := s.userMail.SendFrom(ctx, ports.SMTPIdentity{Email: cfg.Email, Password: password}, ports.OutboundMail{
		To:       toEmail,
		Subject:  subject,
		TextBody: body,
	}); err != nil {
		s.recordActivity(ctx, userID, domain.ActionEmailSend, domain.ActivityStatusFailure, "email delivery failed",
			map[string]any{"to_email": toEmail})
		return EmailMessageItem{}, fmt.Errorf("send email: %w", err)
	}

	now := s.nowFn()
	status := domain.EmailStatusSent

	emailID := strings.TrimSpace(req.EmailID)
	if emailID != "" {
		updated, err := s.emails.Update(ctx, userID, emailID, ports.EmailMessageUpdate{
			Status:  &status,
			Subject: &subject,
			Body:    &body,
			ToEmail: &toEmail,
			SentAt:  &now,
		})
		if err == nil {
			s.recordActivity(ctx, userID, domain.ActionEmailSend, domain.ActivityStatusSuccess, "email sent",
				map[string]any{"email_id": emailID, "to_email": toEmail})
			return toEmailMessageItem(updated), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return EmailMessageItem{}, err
		}
	} else {
		emailID = uuid.NewString()
	}

	msg := domain.EmailMessage{
		UserID:    userID,
		EmailID:   emailID,
		ToEmail:   toEmail,
		Subject:   subject,
		Body:      body,
		Tone:      user.DefaultTone,
		Status:    status,
		SentAt:    &now,
		Version:   1,
		Timestamp: now,
	}
	if user.SaveHistory {
		saved, err := s.emails.Insert(ctx, msg)
		if err != nil {
			return EmailMessageItem{}, err
		}
		msg = saved
	}

	s.recordActivity(ctx, userID, domain.ActionEmailSend, domain.ActivityStatusSuccess, "email sent",
		map[string]any{"email_id": msg.EmailID, "to_email": toEmail})
	return toEmailMessageItem(msg), nil
}
