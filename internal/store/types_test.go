package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredentialHasToken(t *testing.T) {
	tests := []struct {
		name string
		cred Credential
		want bool
	}{
		{"both tokens", Credential{AccessToken: "at", RefreshToken: "rt"}, true},
		{"access only", Credential{AccessToken: "at"}, true},
		{"refresh only", Credential{RefreshToken: "rt"}, true},
		{"no tokens", Credential{Scope: "https://www.googleapis.com/auth/calendar"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cred.HasToken())
		})
	}
}

func TestCredentialHasScope(t *testing.T) {
	const calendarScope = "https://www.googleapis.com/auth/calendar"

	tests := []struct {
		name  string
		scope string
		want  bool
	}{
		{
			"calendar among others",
			"openid email https://www.googleapis.com/auth/calendar",
			true,
		},
		{
			"calendar only",
			calendarScope,
			true,
		},
		{
			"missing calendar",
			"openid email https://www.googleapis.com/auth/drive",
			false,
		},
		{"empty scope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := Credential{Scope: tt.scope}
			assert.Equal(t, tt.want, cred.HasScope(calendarScope))
		})
	}
}

func TestCredentialExpiry(t *testing.T) {
	assert.True(t, Credential{}.Expiry().IsZero(), "unknown expiry should map to zero time")

	at := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	cred := Credential{ExpiresAt: at.Unix()}
	assert.True(t, cred.Expiry().Equal(at))
}
