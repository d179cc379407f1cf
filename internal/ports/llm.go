package ports

import "context"

// DraftRequest asks the assistant for a conversational reply.
type DraftRequest struct {
	Message string
	Tone    string
}

// EmailDraftRequest asks the assistant to compose a full email.
type EmailDraftRequest struct {
	Prompt    string
	Tone      string
	Recipient string
}

// EmailDraft is a composed email split into its addressable parts.
type EmailDraft struct {
	Subject string
	Body    string
	To      string
}

// DraftGenerator produces assistant text from user prompts.
type DraftGenerator interface {
	GenerateReply(ctx context.Context, req DraftRequest) (string, error)
	GenerateEmail(ctx context.Context, req EmailDraftRequest) (EmailDraft, error)
}
