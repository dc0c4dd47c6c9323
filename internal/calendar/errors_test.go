package calendar

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name             string
		err              error
		wantUnauthorized bool
	}{
		{
			name:             "nil error",
			err:              nil,
			wantUnauthorized: false,
		},
		{
			name:             "api 401",
			err:              &googleapi.Error{Code: http.StatusUnauthorized, Message: "Invalid Credentials"},
			wantUnauthorized: true,
		},
		{
			name:             "wrapped api 401",
			err:              fmt.Errorf("failed to list events: %w", &googleapi.Error{Code: http.StatusUnauthorized}),
			wantUnauthorized: true,
		},
		{
			name:             "api 500",
			err:              &googleapi.Error{Code: http.StatusInternalServerError, Message: "backend error"},
			wantUnauthorized: false,
		},
		{
			name:             "api 403",
			err:              &googleapi.Error{Code: http.StatusForbidden, Message: "rate limit"},
			wantUnauthorized: false,
		},
		{
			name:             "failed refresh exchange",
			err:              fmt.Errorf("oauth2: %w", &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}}),
			wantUnauthorized: true,
		},
		{
			name:             "plain transport error",
			err:              errors.New("connection refused"),
			wantUnauthorized: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyError(tt.err)
			if tt.err == nil {
				if classified != nil {
					t.Fatalf("classifyError(nil) = %v, want nil", classified)
				}
				return
			}
			if got := IsUnauthorized(classified); got != tt.wantUnauthorized {
				t.Errorf("IsUnauthorized = %v, want %v (err: %v)", got, tt.wantUnauthorized, classified)
			}
		})
	}
}

func TestClassifyErrorPreservesOriginal(t *testing.T) {
	apiErr := &googleapi.Error{Code: http.StatusUnauthorized}
	classified := classifyError(fmt.Errorf("failed to list events: %w", apiErr))

	if !IsUnauthorized(classified) {
		t.Fatal("expected unauthorized classification")
	}
	// The original error text must survive for report entries and logs.
	if classified.Error() == ErrUnauthorized.Error() {
		t.Error("classified error lost the underlying cause")
	}
}
