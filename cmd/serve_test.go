package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmdFlags(t *testing.T) {
	cmd := newServeCmd()

	for _, name := range []string{"debug", "http-addr", "metrics-addr", "env-file"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "expected flag %q", name)
	}
}

func TestDispatchCmdFlags(t *testing.T) {
	cmd := newDispatchCmd()

	for _, name := range []string{"debug", "dry-run", "env-file", "lookahead"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "expected flag %q", name)
	}
}

func TestServeCmd_RequiresConfiguration(t *testing.T) {
	for _, key := range []string{
		"DATABASE_URL", "CRON_SECRET",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
		"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER",
		"SITE_URL",
	} {
		t.Setenv(key, "")
	}

	cmd := newServeCmd()
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required configuration")
}
