package server

import (
	"net/http"

	"github.com/callminder/callminder/internal/voice"
)

// handleVoice serves the TwiML script Twilio fetches when a reminder call
// connects. Twilio cannot authenticate here, so the endpoint is public and
// carries no user data beyond the event name and time embedded in the URL
// at call placement.
func (s *Server) handleVoice(w http.ResponseWriter, r *http.Request) {
	eventName := r.URL.Query().Get("event")
	if eventName == "" {
		eventName = voice.DefaultEventName
	}
	eventTime := r.URL.Query().Get("time")
	if eventTime == "" {
		eventTime = voice.DefaultEventTime
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(voice.Render(eventName, eventTime)))
}
