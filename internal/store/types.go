package store

import (
	"strings"
	"time"
)

// User is a dashboard account row.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Credential is a read-only snapshot of one stored Google OAuth grant.
// At least one of AccessToken/RefreshToken must be present for the owning
// user to be dispatchable; expiry and scope problems are detected per user
// during a run, not here.
type Credential struct {
	AccessToken  string
	RefreshToken string
	// ExpiresAt is the access token expiry in epoch seconds. Zero means
	// the expiry is unknown.
	ExpiresAt int64
	// Scope is the space-delimited set of granted OAuth scopes.
	Scope string
}

// HasToken reports whether the credential carries any usable token.
func (c Credential) HasToken() bool {
	return c.AccessToken != "" || c.RefreshToken != ""
}

// HasScope reports whether the granted scope string contains the given
// capability.
func (c Credential) HasScope(scope string) bool {
	return strings.Contains(c.Scope, scope)
}

// Expiry returns the access token expiry as a time, or the zero time when
// the expiry is unknown.
func (c Credential) Expiry() time.Time {
	if c.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(c.ExpiresAt, 0)
}

// EligibleUser is a user that passed the dispatch pre-filter: a stored
// phone number plus at least one Google account with a token. The
// credential may still turn out to be expired or scope-deficient.
type EligibleUser struct {
	ID          string
	Email       string
	PhoneNumber string
	Credential  Credential
}
