package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/callminder/callminder/internal/calendar"
	"github.com/callminder/callminder/internal/logging"
	"github.com/callminder/callminder/internal/store"
)

// previewEvent is one event in the preview response.
type previewEvent struct {
	Title    string `json:"title"`
	Start    string `json:"start,omitempty"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
}

type previewResponse struct {
	Events []previewEvent `json:"events"`
}

// handlePreview returns the caller's upcoming events over the next 24
// hours. Authenticated with a dashboard session token; read-only, never
// places calls.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithOperation(s.logger, "calendar_preview")

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
	logger = logger.With(logging.UserHash(user.Email))

	cred, err := s.cfg.Store.CredentialByEmail(r.Context(), user.Email)
	if err != nil || !cred.HasToken() {
		logger.Warn("no usable credential for preview", logging.Err(err))
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	fetchCtx, cancel := context.WithTimeout(r.Context(), previewFetchTimeout)
	defer cancel()

	now := time.Now()
	events, err := s.cfg.Events.ListEvents(fetchCtx, cred, now, now.Add(s.cfg.PreviewWindow), previewMaxResults)
	if err != nil {
		if calendar.IsUnauthorized(err) {
			logger.Warn("calendar rejected credential", logging.Err(err))
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Invalid or expired token"})
			return
		}
		logger.Error("calendar fetch failed", logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch calendar events"})
		return
	}

	resp := previewResponse{Events: make([]previewEvent, 0, len(events))}
	for _, event := range events {
		start := event.StartDateTime
		if start == "" {
			start = event.StartDate
		}
		resp.Events = append(resp.Events, previewEvent{
			Title:    event.DisplayTitle(),
			Start:    start,
			Time:     event.DisplayStart(s.cfg.Location),
			Location: event.Location,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
