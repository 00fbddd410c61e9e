package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cryptodash/logger"
	"cryptodash/model"
	"cryptodash/repository"
)

// preferencesRequest is the onboarding payload. Array fields use
// json.RawMessage so a non-array value can be rejected with a 400 instead of
// a silent decode failure.
type preferencesRequest struct {
	InvestorType     string          `json:"investor_type"`
	InterestedAssets json.RawMessage `json:"interested_assets"`
	ContentTypes     json.RawMessage `json:"content_types"`
}

// SavePreferencesHandler replaces the user's preferences wholesale.
func (h *APIHandler) SavePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.InvestorType != "" && !model.IsValidInvestorType(req.InvestorType) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"Invalid investor_type. Must be one of: %s", strings.Join(model.ValidInvestorTypes, ", ")))
		return
	}

	interestedAssets, err := decodeStringArray(req.InterestedAssets)
	if err != nil {
		writeError(w, http.StatusBadRequest, "interested_assets must be an array")
		return
	}

	contentTypes, err := decodeStringArray(req.ContentTypes)
	if err != nil {
		writeError(w, http.StatusBadRequest, "content_types must be an array")
		return
	}

	var invalid []string
	for _, ct := range contentTypes {
		if !model.IsValidContentType(ct) {
			invalid = append(invalid, ct)
		}
	}
	if len(invalid) > 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf(
			"Invalid content_types: %s", strings.Join(invalid, ", ")))
		return
	}

	investorType := req.InvestorType
	if investorType == "" {
		investorType = model.DefaultInvestorType
	}
	if len(contentTypes) == 0 {
		contentTypes = model.DefaultContentTypes
	}

	prefs := &model.Preferences{
		InvestorType:     investorType,
		InterestedAssets: interestedAssets,
		ContentTypes:     contentTypes,
		CreatedAt:        time.Now().UTC(),
	}

	if err := h.userRepo.UpdatePreferences(userID, prefs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("preferences update failed", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info("preferences saved",
		logger.Int64("userId", userID),
		logger.String("investorType", investorType),
		logger.Int("assets", len(interestedAssets)))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Preferences saved successfully",
		"preferences": prefs,
	})
}

// GetPreferencesHandler returns the user's stored preferences, or null before
// onboarding.
func (h *APIHandler) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil {
		logger.Error("user lookup failed", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	prefs, err := repository.DecodePreferences(user)
	if err != nil {
		logger.Error("stored preferences unreadable", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if prefs == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"preferences": nil,
			"message":     "No preferences set. Please complete onboarding.",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"preferences": prefs})
}

// decodeStringArray parses a JSON value that must be an array of strings.
// Absent values decode as an empty array; anything else is an error.
func decodeStringArray(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
