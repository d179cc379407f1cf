package http

import (
	"net/http"

	"github.com/mailagent/server/internal/application"
)

func (h *Handler) historyQueryFromRequest(r *http.Request) (application.HistoryQuery, error) {
	before, err := parseTimeParam(r.URL.Query().Get("before"))
	if err != nil {
		return application.HistoryQuery{}, err
	}
	after, err := parseTimeParam(r.URL.Query().Get("after"))
	if err != nil {
		return application.HistoryQuery{}, err
	}
	return application.HistoryQuery{
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
		Before: before,
		After:  after,
	}, nil
}

func (h *Handler) chatHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "chat_history")
		return
	}
	query, err := h.historyQueryFromRequest(r)
	if err != nil {
		writeValidationError(r.Context(), w, "chat_history", err)
		return
	}

	items, err := h.service.ChatHistory(r.Context(), claims.UserID, query)
	if err != nil {
		writeMappedError(r.Context(), w, "chat_history", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"messages": items})
}

func (h *Handler) clearChatHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "clear_chat_history")
		return
	}

	deleted, err := h.service.ClearChatHistory(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(r.Context(), w, "clear_chat_history", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (h *Handler) emailHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "email_history")
		return
	}
	query, err := h.historyQueryFromRequest(r)
	if err != nil {
		writeValidationError(r.Context(), w, "email_history", err)
		return
	}

	items, err := h.service.EmailHistory(r.Context(), claims.UserID, query)
	if err != nil {
		writeMappedError(r.Context(), w, "email_history", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"emails": items})
}
