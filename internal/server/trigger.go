package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/callminder/callminder/internal/dispatch"
	"github.com/callminder/callminder/internal/logging"
)

// triggerResponse is the 200 body of the cron trigger endpoint.
type triggerResponse struct {
	Success   bool             `json:"success"`
	Timestamp string           `json:"timestamp"`
	Results   *dispatch.Report `json:"results"`
}

// handleTrigger runs one dispatch pass when presented with the shared cron
// secret. The scheduler is the only intended caller; the report is
// returned so its logs capture per-run outcomes.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	// Fail closed when no secret is configured; an empty secret must not
	// match an empty bearer token.
	token := bearerToken(r)
	if s.cfg.CronSecret == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.CronSecret)) != 1 {
		s.logger.Warn("trigger rejected", logging.Operation("cron_trigger"))
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	report, err := s.cfg.Runner.RunOnce(r.Context(), time.Now())
	if err != nil {
		s.logger.Error("dispatch run failed", logging.Operation("cron_trigger"), logging.Err(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Error:   "Cron job failed",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, triggerResponse{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Results:   report,
	})
}
