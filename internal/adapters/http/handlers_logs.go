package http

import (
	"net/http"

	"github.com/mailagent/server/internal/application"
)

func (h *Handler) listActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeMissingBearerError(r.Context(), w, "list_activity")
		return
	}

	query := application.ActivityListQuery{
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 20),
		Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		Action: r.URL.Query().Get("action"),
		Status: r.URL.Query().Get("status"),
		Days:   parseIntDefault(r.URL.Query().Get("days"), 0),
	}
	items, err := h.service.ListActivity(r.Context(), claims.UserID, query)
	if err != nil {
		writeMappedError(r.Context(), w, "list_activity", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"activity": items})
}
