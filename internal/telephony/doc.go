// Package telephony places outbound voice reminder calls through the
// Twilio REST API.
//
// Call placement hands the provider a callback URL instead of inline
// markup; the provider fetches the spoken prompt from the voice endpoint
// when the call is answered. Failures are folded into the returned Outcome
// so one busy line never aborts a dispatch run.
package telephony
