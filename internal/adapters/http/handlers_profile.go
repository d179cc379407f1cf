package http

import (
	"net/http"

	"github.com/mailagent/server/internal/application"
)

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "update_profile")
		return
	}
	var req application.UpdateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_profile", err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), claims.UserID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, profile)
}

func (h *Handler) usageStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "usage_stats")
		return
	}

	stats, err := h.service.UsageStats(r.Context(), claims.UserID)
	if err != nil {
		writeMappedError(r.Context(), w, "usage_stats", err)
		return
	}
	writeSuccess(w, http.StatusOK, stats)
}
