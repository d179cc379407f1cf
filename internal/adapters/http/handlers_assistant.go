package http

import (
	"net/http"

	"github.com/mailagent/server/internal/application"
)

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "chat")
		return
	}
	var req application.ChatRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "chat", err)
		return
	}

	res, err := h.service.Chat(r.Context(), claims.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "chat", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) composeEmail(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "compose_email")
		return
	}
	var req application.ComposeEmailRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "compose_email", err)
		return
	}

	res, err := h.service.ComposeEmail(r.Context(), claims.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "compose_email", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) sendEmail(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "send_email")
		return
	}
	var req application.SendEmailRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "send_email", err)
		return
	}

	res, err := h.service.SendEmail(r.Context(), claims.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "send_email", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}
