// Package dispatch implements the reminder run: select eligible users,
// fetch each user's imminent calendar events, and place one reminder call
// per event.
//
// A run is best-effort and stateless. Failures past the initial user query
// become entries in the returned Report instead of aborting the run, and
// no record of placed calls survives the run, so overlapping or repeated
// runs may call the same user about the same event again.
package dispatch
