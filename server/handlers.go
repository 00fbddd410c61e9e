package server

import (
	"encoding/json"
	"net/http"

	"cryptodash/config"
	"cryptodash/core/auth"
	"cryptodash/core/dashboard"
	"cryptodash/logger"
	"cryptodash/repository"
)

// APIHandler bundles the collaborators every route needs.
type APIHandler struct {
	userRepo     repository.UserRepository
	feedbackRepo repository.FeedbackRepository
	aggregator   *dashboard.Aggregator
	tokens       *auth.TokenManager
	cfg          *config.Config
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(
	userRepo repository.UserRepository,
	feedbackRepo repository.FeedbackRepository,
	aggregator *dashboard.Aggregator,
	tokens *auth.TokenManager,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
		aggregator:   aggregator,
		tokens:       tokens,
		cfg:          cfg,
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// writeError writes an error response in the {"error": "..."} shape.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// HealthHandler reports service liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "crypto-dashboard-backend",
		"message": "API is running",
	})
}
