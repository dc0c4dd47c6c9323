package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/callminder/callminder/internal/calendar"
	"github.com/callminder/callminder/internal/dispatch"
	"github.com/callminder/callminder/internal/instrumentation"
	"github.com/callminder/callminder/internal/store"
)

// Timeouts for the main API server.
const (
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultIdleTimeout       = 60 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second
)

// previewMaxResults caps the events returned by the preview endpoint.
const previewMaxResults = 10

// previewFetchTimeout bounds the preview's calendar fetch, matching the
// per-call deadline on the dispatch path.
const previewFetchTimeout = 10 * time.Second

// Runner executes one dispatch pass. Implemented by dispatch.Dispatcher.
type Runner interface {
	RunOnce(ctx context.Context, now time.Time) (*dispatch.Report, error)
}

// UserStore is the subset of the credential store the HTTP handlers need:
// session resolution and the per-user read/write paths.
type UserStore interface {
	UserBySessionToken(ctx context.Context, token string) (*store.User, error)
	CredentialByEmail(ctx context.Context, email string) (store.Credential, error)
	UpdatePhoneNumber(ctx context.Context, email, phoneNumber string) (*store.User, error)
}

// EventLister fetches calendar events for the preview endpoint.
type EventLister interface {
	ListEvents(ctx context.Context, cred store.Credential, timeMin, timeMax time.Time, maxResults int64) ([]calendar.Event, error)
}

// Config holds the Server's collaborators and settings.
type Config struct {
	// CronSecret is the shared bearer secret guarding the trigger endpoint.
	CronSecret string

	// Runner executes dispatch passes for the trigger endpoint.
	Runner Runner

	// Store resolves sessions and serves the preview and phone endpoints.
	Store UserStore

	// Events serves the preview endpoint's calendar reads.
	Events EventLister

	// PreviewWindow is the forward window for the preview endpoint
	// (default 24h).
	PreviewWindow time.Duration

	// Location renders display times; defaults to time.Local.
	Location *time.Location

	// Metrics records HTTP request telemetry; nil disables recording.
	Metrics *instrumentation.Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Server is the main API surface: the cron trigger, the voice prompt
// callback, the calendar preview and the phone update endpoint, plus
// health probes. Prometheus metrics are served by a separate
// MetricsServer, not here.
type Server struct {
	cfg        Config
	health     *HealthChecker
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// New creates a Server. The health checker starts ready; callers flip it
// during shutdown.
func New(cfg Config) *Server {
	if cfg.PreviewWindow <= 0 {
		cfg.PreviewWindow = 24 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &instrumentation.Metrics{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Server{
		cfg:     cfg,
		health:  NewHealthChecker(),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Health exposes the readiness toggle for lifecycle management.
func (s *Server) Health() *HealthChecker {
	return s.health
}

// Handler builds the route table. Split out from Start so tests can drive
// the full mux through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/api/cron/check-events", s.instrument("/api/cron/check-events", s.handleTrigger))
	mux.Handle("/api/twilio/voice", s.instrument("/api/twilio/voice", s.handleVoice))
	mux.Handle("/api/calendar/upcoming", s.instrument("/api/calendar/upcoming", s.handlePreview))
	mux.Handle("/api/users/phone", s.instrument("/api/users/phone", s.handlePhone))

	s.health.RegisterHealthEndpoints(mux)

	return mux
}

// Start runs the server until ListenAndServe returns. Call in a goroutine
// for non-blocking operation.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	s.logger.Info("starting http server", slog.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests. The readiness probe flips to not
// ready first so load balancers stop routing new traffic.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		s.logger.Info("shutting down http server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// instrument wraps a handler with HTTP metrics recording under a stable
// route label.
func (s *Server) instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, route, rec.status, time.Since(started))
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// bearerToken extracts the token from an Authorization: Bearer header, or
// returns the empty string.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}

// writeJSON sends a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorBody is the {"error": ...} shape shared by all failure responses.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
