package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"cryptodash/logger"
	"cryptodash/model"
)

// feedbackRequest is the voting payload. Vote is a pointer so an absent vote
// can be told apart from an explicit zero.
type feedbackRequest struct {
	ContentType string `json:"content_type"`
	ContentHash string `json:"content_hash"`
	Vote        *int   `json:"vote"`
}

// SubmitFeedbackHandler records a thumbs up/down vote. A repeat vote on the
// same content overwrites the earlier one.
func (h *APIHandler) SubmitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.ContentType == "" || req.ContentHash == "" || req.Vote == nil {
		writeError(w, http.StatusBadRequest, "Missing required fields: content_type, content_hash, vote")
		return
	}
	if !model.IsValidFeedbackType(req.ContentType) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"Invalid content_type. Must be one of: %s", strings.Join(model.ValidFeedbackTypes, ", ")))
		return
	}
	if !model.IsValidVote(*req.Vote) {
		writeError(w, http.StatusBadRequest, "Vote must be 1 (thumbs up) or -1 (thumbs down)")
		return
	}

	created, err := h.feedbackRepo.Upsert(userID, req.ContentType, req.ContentHash, *req.Vote)
	if err != nil {
		logger.Error("feedback upsert failed", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusOK
	message := "Feedback updated successfully"
	if created {
		status = http.StatusCreated
		message = "Feedback submitted successfully"
	}

	writeJSON(w, status, map[string]interface{}{
		"message": message,
		"feedback": map[string]interface{}{
			"content_type": req.ContentType,
			"content_hash": req.ContentHash,
			"vote":         *req.Vote,
		},
	})
}

// GetFeedbackHandler lists the user's feedback, newest first.
func (h *APIHandler) GetFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	list, err := h.feedbackRepo.ListByUser(userID)
	if err != nil {
		logger.Error("feedback listing failed", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if list == nil {
		list = []model.Feedback{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"feedback": list,
		"count":    len(list),
	})
}
