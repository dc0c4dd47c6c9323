package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"

	"github.com/callminder/callminder/internal/logging"
	"github.com/callminder/callminder/internal/store"
)

// e164Pattern matches international phone numbers in E.164 form.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

type phoneRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type phoneResponse struct {
	Message string     `json:"message"`
	User    store.User `json:"user"`
}

// handlePhone stores the caller's reminder phone number. Session-token
// authenticated, same scheme as the preview endpoint.
func (s *Server) handlePhone(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
		return
	}

	logger := logging.WithOperation(s.logger, "phone_update")

	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	user, err := s.cfg.Store.UserBySessionToken(r.Context(), token)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			logger.Error("session lookup failed", logging.Err(err))
		}
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	var req phoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return
	}

	if !e164Pattern.MatchString(req.PhoneNumber) {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error: "Invalid phone number format. Use E.164 format (e.g., +15551234567)",
		})
		return
	}

	updated, err := s.cfg.Store.UpdatePhoneNumber(r.Context(), user.Email, req.PhoneNumber)
	if err != nil {
		logger.Error("phone update failed", logging.UserHash(user.Email), logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to update phone number"})
		return
	}

	logger.Info("phone number updated", logging.UserHash(user.Email))
	writeJSON(w, http.StatusOK, phoneResponse{
		Message: "Phone number updated successfully",
		User:    *updated,
	})
}
