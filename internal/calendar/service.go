package calendar

import (
	"context"
	"time"

	"github.com/callminder/callminder/internal/store"
)

// Service builds a short-lived authenticated Client per credential and
// lists events with it. It is the dispatcher-facing entry point: the
// dispatcher never handles tokens or refresh, only credentials in and
// events (or a classified error) out.
type Service struct {
	cfg Config
}

// NewService creates a calendar service for the given OAuth application.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// ListEvents fetches the events in [timeMin, timeMax) from the user's
// primary calendar, constructing an authenticated session from the
// credential snapshot. Authorization failures (including failed token
// refresh) satisfy IsUnauthorized.
func (s *Service) ListEvents(ctx context.Context, cred store.Credential, timeMin, timeMax time.Time, maxResults int64) ([]Event, error) {
	client, err := NewClient(ctx, s.cfg, cred)
	if err != nil {
		return nil, err
	}
	return client.ListEvents(ctx, PrimaryCalendarID, timeMin, timeMax, maxResults)
}
