package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mailagent/server/internal/application"
)

func (h *Handler) listSecrets(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "list_secrets")
		return
	}

	items, err := h.service.ListSecrets(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(r.Context(), w, "list_secrets", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"variables": items})
}

func (h *Handler) putSecret(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "put_secret")
		return
	}
	var req application.PutSecretRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "put_secret", err)
		return
	}

	item, err := h.service.PutSecret(r.Context(), claims.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "put_secret", err)
		return
	}
	writeSuccess(w, http.StatusOK, item)
}

func (h *Handler) revealSecret(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "reveal_secret")
		return
	}

	key := chi.URLParam(r, "key")
	value, err := h.service.RevealSecret(r.Context(), claims.UserID, key)
	if err != nil {
		writeMappedError(r.Context(), w, "reveal_secret", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"key": key, "value": value})
}

func (h *Handler) deleteSecret(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "delete_secret")
		return
	}

	if err := h.service.DeleteSecret(r.Context(), claims.UserID, chi.URLParam(r, "key")); err != nil {
		writeMappedError(r.Context(), w, "delete_secret", err)
		return
	}
	writeMessage(w, http.StatusOK, "Variable deleted")
}

func (h *Handler) emailConfig(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "email_config")
		return
	}

	cfg, err := h.service.ActiveEmailConfig(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(r.Context(), w, "email_config", err)
		return
	}
	writeSuccess(w, http.StatusOK, cfg)
}

func (h *Handler) putEmailConfig(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "put_email_config")
		return
	}
	var req application.EmailConfigRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "put_email_config", err)
		return
	}

	cfg, err := h.service.PutEmailConfig(r.Context(), claims.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "put_email_config", err)
		return
	}
	writeSuccess(w, http.StatusOK, cfg)
}

func (h *Handler) deleteEmailConfig(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "delete_email_config")
		return
	}

	if err := h.service.DeleteEmailConfig(r.Context(), claims.UserID, chi.URLParam(r, "email")); err != nil {
		writeMappedError(r.Context(), w, "delete_email_config", err)
		return
	}
	writeMessage(w, http.StatusOK, "Email configuration deleted")
}
