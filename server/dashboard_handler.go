package server

import (
	"errors"
	"net/http"

	"cryptodash/core/dashboard"
	"cryptodash/logger"
)

// DashboardHandler assembles and returns the personalized dashboard.
func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	result, err := h.aggregator.Build(r.Context(), userID)
	if err != nil {
		if errors.Is(err, dashboard.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("dashboard assembly failed", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"dashboard":        result.Dashboard,
		"user_preferences": result.Preferences,
	})
}
