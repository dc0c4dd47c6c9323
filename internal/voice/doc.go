// Package voice renders the TwiML voice prompt spoken to users when a
// reminder call is answered. The renderer is pure: request parameters in,
// escaped markup out.
package voice
