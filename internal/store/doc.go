// Package store provides read access to the dashboard's Postgres database:
// user accounts, their Google OAuth credentials and login sessions.
//
// The schema is owned by the dashboard application (NextAuth-style users,
// accounts and sessions tables). The dispatcher treats credentials as
// read-only snapshots for the duration of one run; the only write path is
// the phone number update used by the profile endpoint.
package store
