package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/callminder/callminder/internal/calendar"
	"github.com/callminder/callminder/internal/instrumentation"
	"github.com/callminder/callminder/internal/logging"
	"github.com/callminder/callminder/internal/store"
	"github.com/callminder/callminder/internal/telephony"
)

// Skip and failure messages recorded in report details. The dashboard
// matches on these strings, so they are part of the wire contract.
const (
	reasonNoTokens     = "No tokens"
	reasonNoScopes     = "Insufficient scopes"
	reasonUnauthorized = "Invalid or expired token"
)

// maxEventsPerUser caps one user's event fetch within the lookahead window.
const maxEventsPerUser = 50

// fetchTimeout bounds each per-user calendar fetch so one unresponsive
// upstream cannot stall the whole run.
const fetchTimeout = 10 * time.Second

// UserSource lists the users eligible for reminder dispatch.
type UserSource interface {
	ListEligibleUsers(ctx context.Context) ([]store.EligibleUser, error)
}

// EventSource lists a user's imminent calendar events from a credential
// snapshot. Implementations handle token refresh internally and classify
// authorization failures via calendar.IsUnauthorized.
type EventSource interface {
	ListEvents(ctx context.Context, cred store.Credential, timeMin, timeMax time.Time, maxResults int64) ([]calendar.Event, error)
}

// Caller places one outbound reminder call.
type Caller interface {
	PlaceReminderCall(ctx context.Context, toNumber, eventTitle, displayStart string) telephony.Outcome
}

// Options tunes a Dispatcher. Zero values select the defaults.
type Options struct {
	// Lookahead is the forward window scanned for imminent events
	// (default 5 minutes).
	Lookahead time.Duration

	// Location is the timezone used to render spoken start times
	// (default time.Local).
	Location *time.Location

	// Metrics records run telemetry; nil disables recording.
	Metrics *instrumentation.Metrics

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Dispatcher executes one end-to-end reminder pass per RunOnce call:
// select eligible users, fetch each user's imminent events, place one call
// per event. Users are processed sequentially and independently; any
// single user's or call's failure is downgraded to a report entry and the
// run continues. Runs share no state, and nothing suppresses duplicate
// calls across overlapping runs.
type Dispatcher struct {
	users   UserSource
	events  EventSource
	caller  Caller
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	lookahead time.Duration
	location  *time.Location
}

// New creates a Dispatcher.
func New(users UserSource, events EventSource, caller Caller, opts Options) *Dispatcher {
	if opts.Lookahead <= 0 {
		opts.Lookahead = 5 * time.Minute
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Metrics == nil {
		opts.Metrics = &instrumentation.Metrics{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Dispatcher{
		users:     users,
		events:    events,
		caller:    caller,
		logger:    logging.WithOperation(opts.Logger, "dispatch_run"),
		metrics:   opts.Metrics,
		lookahead: opts.Lookahead,
		location:  opts.Location,
	}
}

// RunOnce executes one polling pass anchored at now and returns the
// assembled report. An error return means the run never reached the user
// loop (store unreachable); everything after that boundary is downgraded
// to report entries.
func (d *Dispatcher) RunOnce(ctx context.Context, now time.Time) (*Report, error) {
	ctx, span := instrumentation.StartRunSpan(ctx)
	defer span.End()
	started := time.Now()

	users, err := d.users.ListEligibleUsers(ctx)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		d.metrics.RecordDispatchRun(ctx, instrumentation.StatusError, time.Since(started))
		return nil, fmt.Errorf("failed to list eligible users: %w", err)
	}

	d.logger.Info("dispatch run started",
		slog.Time("now", now),
		slog.Int("eligible_users", len(users)),
	)

	// Details is non-nil so an empty run serializes as [], not null.
	report := &Report{TotalUsers: len(users), Details: []Detail{}}
	for _, user := range users {
		d.processUser(ctx, user, now, report)
	}

	instrumentation.SetSpanSuccess(span)
	d.metrics.RecordDispatchRun(ctx, instrumentation.StatusSuccess, time.Since(started))

	d.logger.Info("dispatch run completed",
		slog.Int("total_users", report.TotalUsers),
		slog.Int("events_found", report.EventsFound),
		slog.Int("calls_initiated", report.CallsInitiated),
		slog.Int("errors", report.Errors),
		slog.Duration(logging.KeyDuration, time.Since(started)),
	)

	return report, nil
}

// processUser handles one user in isolation. It never returns an error:
// every failure becomes a report entry so the remaining users still run.
func (d *Dispatcher) processUser(ctx context.Context, user store.EligibleUser, now time.Time, report *Report) {
	ctx, span := instrumentation.StartUserSpan(ctx, logging.AnonymizeEmail(user.Email))
	defer span.End()

	logger := d.logger.With(logging.UserHash(user.Email))

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while processing user: %v", r)
			logger.Error("user processing panicked", logging.Err(err))
			instrumentation.SetSpanError(span, err)
			report.Errors++
			report.addDetail(Detail{User: user.Email, Error: err.Error()})
			d.metrics.RecordUserProcessed(ctx, instrumentation.UserResultInternalError, logging.AnonymizeEmail(user.Email))
		}
	}()

	if !user.Credential.HasScope(calendar.Scope) {
		logger.Warn("skipping user", logging.Status(logging.StatusSkipped), slog.String("reason", reasonNoScopes))
		report.addDetail(Detail{User: user.Email, Error: reasonNoScopes})
		d.metrics.RecordUserProcessed(ctx, instrumentation.UserResultNoScopes, logging.AnonymizeEmail(user.Email))
		return
	}

	if !user.Credential.HasToken() {
		logger.Warn("skipping user", logging.Status(logging.StatusSkipped), slog.String("reason", reasonNoTokens))
		report.addDetail(Detail{User: user.Email, Error: reasonNoTokens})
		d.metrics.RecordUserProcessed(ctx, instrumentation.UserResultNoTokens, logging.AnonymizeEmail(user.Email))
		return
	}

	events, err := d.fetchEvents(ctx, user.Credential, now)
	if err != nil {
		report.Errors++
		if calendar.IsUnauthorized(err) {
			logger.Warn("calendar rejected credential", logging.Err(err))
			report.addDetail(Detail{User: user.Email, Error: reasonUnauthorized})
			d.metrics.RecordUserProcessed(ctx, instrumentation.UserResultUnauthorized, logging.AnonymizeEmail(user.Email))
			return
		}
		logger.Error("calendar fetch failed", logging.Err(err))
		report.addDetail(Detail{User: user.Email, Error: err.Error()})
		d.metrics.RecordUserProcessed(ctx, instrumentation.UserResultProviderError, logging.AnonymizeEmail(user.Email))
		return
	}

	report.EventsFound += len(events)
	d.metrics.RecordEventsFound(ctx, int64(len(events)))

	if len(events) == 0 {
		logger.Debug("no upcoming events")
		d.metrics.RecordUserProcessed(ctx, instrumentation.UserResultNoEvents, logging.AnonymizeEmail(user.Email))
		return
	}

	logger.Info("upcoming events found", slog.Int("count", len(events)))

	// Events arrive chronologically ascending from the provider; calls go
	// out in the same order.
	for _, event := range events {
		d.placeCall(ctx, user, event, report, logger)
	}
	d.metrics.RecordUserProcessed(ctx, instrumentation.UserResultCalled, logging.AnonymizeEmail(user.Email))
}

// fetchEvents queries the user's primary calendar over the lookahead
// window with a bounded per-call timeout.
func (d *Dispatcher) fetchEvents(ctx context.Context, cred store.Credential, now time.Time) ([]calendar.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	ctx, span := instrumentation.StartProviderSpan(ctx, "calendar", "list_events")
	defer span.End()
	started := time.Now()

	events, err := d.events.ListEvents(ctx, cred, now, now.Add(d.lookahead), maxEventsPerUser)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		d.metrics.RecordCalendarOperation(ctx, "list_events", instrumentation.StatusError, time.Since(started))
		return nil, err
	}

	instrumentation.SetSpanSuccess(span)
	d.metrics.RecordCalendarOperation(ctx, "list_events", instrumentation.StatusSuccess, time.Since(started))
	return events, nil
}

// placeCall places one reminder call and records the outcome. A failed
// call never stops the remaining events or users.
func (d *Dispatcher) placeCall(ctx context.Context, user store.EligibleUser, event calendar.Event, report *Report, logger *slog.Logger) {
	ctx, span := instrumentation.StartProviderSpan(ctx, "telephony", "place_call")
	defer span.End()
	started := time.Now()

	title := event.DisplayTitle()
	displayStart := event.DisplayStart(d.location)

	logger.Info("placing reminder call",
		logging.Event(title),
		slog.String("to", logging.SanitizePhone(user.PhoneNumber)),
	)

	outcome := d.caller.PlaceReminderCall(ctx, user.PhoneNumber, title, displayStart)

	detail := Detail{
		User:        user.Email,
		Event:       title,
		Time:        displayStart,
		CallSuccess: boolPtr(outcome.Succeeded),
		CallSID:     outcome.CallSID,
		Error:       outcome.Error,
	}

	if outcome.Succeeded {
		report.CallsInitiated++
		instrumentation.SetSpanSuccess(span)
		d.metrics.RecordCallPlaced(ctx, instrumentation.StatusSuccess, time.Since(started))
		logger.Info("call initiated", logging.Event(title), logging.CallSID(outcome.CallSID))
	} else {
		report.Errors++
		instrumentation.SetSpanError(span, fmt.Errorf("call failed: %s", outcome.Error))
		d.metrics.RecordCallPlaced(ctx, instrumentation.StatusError, time.Since(started))
		logger.Error("call failed", logging.Event(title), slog.String(logging.KeyError, outcome.Error))
	}

	report.addDetail(detail)
}
