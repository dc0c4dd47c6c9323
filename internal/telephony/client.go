package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAPIBaseURL is the Twilio REST API root.
const DefaultAPIBaseURL = "https://api.twilio.com"

// requestTimeout bounds every call-placement request; an unresponsive
// provider must not stall the dispatch run.
const requestTimeout = 10 * time.Second

// Config holds the Twilio account credentials and the public base URL of
// this service, used to build the voice-prompt callback handed to the
// provider.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string

	// SiteURL is the public base URL of this service without trailing
	// slash, e.g. "https://callminder.example.com".
	SiteURL string

	// APIBaseURL overrides the Twilio API root; used by tests.
	APIBaseURL string
}

// Outcome is the result of one call placement attempt. Either CallSID is
// set (success) or Error carries the provider's message.
type Outcome struct {
	Succeeded bool
	CallSID   string
	Error     string
}

// Client places outbound reminder calls through the Twilio Calls API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a telephony client. The HTTP client carries the
// per-call timeout; callers should additionally pass a bounded context.
func NewClient(cfg Config) *Client {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: requestTimeout},
	}
}

// callResponse is the subset of the Twilio call resource we read.
type callResponse struct {
	SID string `json:"sid"`
}

// errorResponse is Twilio's error envelope.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// PlaceReminderCall initiates one outbound voice call to toNumber. The
// call fetches its spoken prompt from this service's voice endpoint at
// answer time, so placement is decoupled from prompt rendering. There is
// no idempotency key: invoking this twice for the same reminder places two
// calls.
func (c *Client) PlaceReminderCall(ctx context.Context, toNumber, eventTitle, displayStart string) Outcome {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.cfg.APIBaseURL, c.cfg.AccountSID)

	form := url.Values{}
	form.Set("To", toNumber)
	form.Set("From", c.cfg.FromNumber)
	form.Set("Url", c.VoicePromptURL(eventTitle, displayStart))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Outcome{Error: fmt.Sprintf("failed to build call request: %v", err)}
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Outcome{Error: fmt.Sprintf("call request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Outcome{Error: readProviderError(resp)}
	}

	var call callResponse
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return Outcome{Error: fmt.Sprintf("failed to decode call response: %v", err)}
	}

	return Outcome{Succeeded: true, CallSID: call.SID}
}

// VoicePromptURL builds the callback the provider fetches at call-answer
// time to obtain the spoken prompt markup.
func (c *Client) VoicePromptURL(eventTitle, displayStart string) string {
	return fmt.Sprintf("%s/api/twilio/voice?event=%s&time=%s",
		c.cfg.SiteURL,
		url.QueryEscape(eventTitle),
		url.QueryEscape(displayStart),
	)
}

// readProviderError extracts the provider's error message, falling back to
// the HTTP status when the body is not the expected envelope.
func readProviderError(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err == nil {
		var provider errorResponse
		if jsonErr := json.Unmarshal(body, &provider); jsonErr == nil && provider.Message != "" {
			return provider.Message
		}
	}
	return fmt.Sprintf("call rejected (status %d)", resp.StatusCode)
}
