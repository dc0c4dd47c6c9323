package dispatch

// Report aggregates one dispatch run. It is the only artifact returned to
// the trigger caller; nothing in it is persisted. Field names on the wire
// match the dashboard's existing cron consumer.
type Report struct {
	// TotalUsers is the number of users that passed the store pre-filter
	// and were considered this run.
	TotalUsers int `json:"totalUsers"`

	// EventsFound is the total event count across all users.
	EventsFound int `json:"eventsFound"`

	// CallsInitiated counts successfully placed reminder calls.
	CallsInitiated int `json:"callsInitiated"`

	// Errors counts per-user and per-call failures. Skips for missing
	// scopes or tokens are recorded as details but are not errors.
	Errors int `json:"errors"`

	// Details preserves processing order: grouped by user, events in
	// chronological order within a user.
	Details []Detail `json:"details"`
}

// Detail is one per-user or per-event report entry.
type Detail struct {
	// User is the user's email address.
	User string `json:"user"`

	// Event and Time are set for call attempt entries.
	Event string `json:"event,omitempty"`
	Time  string `json:"time,omitempty"`

	// CallSuccess is set (true or false) only for call attempt entries;
	// skip and fetch-error entries leave it absent.
	CallSuccess *bool `json:"callSuccess,omitempty"`

	// CallSID is the telephony provider's correlation id for a placed call.
	CallSID string `json:"callSid,omitempty"`

	// Error carries the skip reason or failure message.
	Error string `json:"error,omitempty"`
}

func (r *Report) addDetail(d Detail) {
	r.Details = append(r.Details, d)
}

func boolPtr(b bool) *bool {
	return &b
}
