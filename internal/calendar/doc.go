// Package calendar wraps the Google Calendar API for the reminder
// dispatcher.
//
// A Client is constructed per user from a stored OAuth credential snapshot
// and handles access-token refresh transparently. Authorization failures
// (rejected or unrefreshable credentials) are classified as ErrUnauthorized
// so the dispatcher can skip the user without aborting the run, while other
// provider failures pass through as ordinary errors.
package calendar
