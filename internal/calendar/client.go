package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/callminder/callminder/internal/store"
)

// Scope is the OAuth capability required to read a user's calendar. A
// credential whose grant does not contain it is skipped before any API
// call is made.
const Scope = "https://www.googleapis.com/auth/calendar"

// PrimaryCalendarID addresses the user's default calendar.
const PrimaryCalendarID = "primary"

// Config identifies the OAuth application used to refresh user tokens.
type Config struct {
	ClientID     string
	ClientSecret string
}

// Client wraps the Google Calendar service for a single user credential.
// Token refresh is transparent: when the access token is expired or absent
// and a refresh token exists, the underlying token source exchanges it
// before the request goes out. A failed exchange surfaces as
// ErrUnauthorized.
type Client struct {
	svc *calendar.Service
}

// NewClient builds an authenticated Calendar client from a stored
// credential snapshot.
func NewClient(ctx context.Context, cfg Config, cred store.Credential) (*Client, error) {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       cred.Expiry(),
	}
	if token.AccessToken == "" {
		// Force an immediate refresh on first use.
		token.Expiry = time.Unix(1, 0)
	}

	tokenSource := conf.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{svc: svc}, nil
}

// ListEvents lists events in a calendar within [timeMin, timeMax), ordered
// by start time ascending, with recurring events expanded to single
// occurrences and capped at maxResults. Authorization failures are
// distinguishable via IsUnauthorized.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]Event, error) {
	call := c.svc.Events.List(calendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults)

	events, err := call.Do()
	if err != nil {
		return nil, classifyError(fmt.Errorf("failed to list events: %w", err))
	}

	result := make([]Event, 0, len(events.Items))
	for _, event := range events.Items {
		result = append(result, toEvent(event))
	}

	return result, nil
}
