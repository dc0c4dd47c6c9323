package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Default values for optional settings.
const (
	DefaultHTTPAddr    = ":8080"
	DefaultMetricsAddr = ":9090"

	// DefaultLookahead is the forward window scanned for imminent events
	// on the scheduled path.
	DefaultLookahead = 5 * time.Minute

	// DefaultPreviewWindow is the window used by the read-only preview
	// endpoint. The preview never places calls.
	DefaultPreviewWindow = 24 * time.Hour
)

// Config holds all process-wide settings. It is constructed once at startup
// and passed explicitly into the dispatcher and both provider clients;
// business logic never reads environment variables directly.
type Config struct {
	// DatabaseURL is the Postgres connection string for the credential store.
	DatabaseURL string

	// CronSecret is the shared bearer secret expected by the trigger endpoint.
	CronSecret string

	// GoogleClientID and GoogleClientSecret identify the OAuth application
	// used to refresh per-user calendar tokens.
	GoogleClientID     string
	GoogleClientSecret string

	// Twilio credentials and the sender number for outbound reminder calls.
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	// SiteURL is the public base URL of this service, used to build the
	// voice-prompt callback URL handed to Twilio.
	SiteURL string

	// HTTPAddr is the listen address of the main API server.
	HTTPAddr string

	// MetricsAddr is the listen address of the dedicated metrics server.
	MetricsAddr string

	// MetricsEnabled controls whether the metrics server is started.
	MetricsEnabled bool

	// Lookahead is the event scan window for the scheduled dispatch path.
	Lookahead time.Duration

	// Debug enables debug-level logging.
	Debug bool
}

// FromEnv builds a Config from environment variables. Callers that want
// .env file support should load it (godotenv) before calling this.
func FromEnv() Config {
	return Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		CronSecret:         os.Getenv("CRON_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		TwilioAccountSID:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber:  os.Getenv("TWILIO_PHONE_NUMBER"),
		SiteURL:            strings.TrimRight(os.Getenv("SITE_URL"), "/"),
		HTTPAddr:           getEnvOrDefault("HTTP_ADDR", DefaultHTTPAddr),
		MetricsAddr:        getEnvOrDefault("METRICS_ADDR", DefaultMetricsAddr),
		MetricsEnabled:     getEnvBoolOrDefault("METRICS_ENABLED", true),
		Lookahead:          getEnvDurationOrDefault("DISPATCH_LOOKAHEAD", DefaultLookahead),
		Debug:              getEnvBoolOrDefault("DEBUG", false),
	}
}

// Validate checks that every setting required to run the service is present.
func (c Config) Validate() error {
	var missing []string

	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.CronSecret == "" {
		missing = append(missing, "CRON_SECRET")
	}
	if c.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if c.TwilioAccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.TwilioAuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.TwilioPhoneNumber == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	if c.SiteURL == "" {
		missing = append(missing, "SITE_URL")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.Lookahead <= 0 {
		return fmt.Errorf("dispatch lookahead must be positive, got %s", c.Lookahead)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "t", "true", "yes":
		return true
	case "0", "f", "false", "no":
		return false
	default:
		return defaultValue
	}
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
