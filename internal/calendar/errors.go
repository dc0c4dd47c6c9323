package calendar

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// ErrUnauthorized marks authorization failures: the provider rejected the
// credential, or the refresh-token exchange failed. The dispatcher treats
// these differently from transient provider errors (user skipped vs error
// recorded), so classification happens here rather than in the caller.
var ErrUnauthorized = errors.New("calendar: unauthorized")

// classifyError wraps provider errors so callers can branch with errors.Is.
// A 401 from the Calendar API and a failed token refresh both become
// ErrUnauthorized; anything else passes through as a provider error.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: token refresh failed: %v", ErrUnauthorized, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	return err
}

// IsUnauthorized reports whether err is an authorization failure from the
// calendar provider or the token refresh exchange.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
