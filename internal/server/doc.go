// Package server exposes the HTTP surface: the scheduler-facing trigger
// endpoint, the public TwiML voice prompt callback, the session-protected
// calendar preview and phone update endpoints, health probes, and a
// dedicated Prometheus metrics listener.
package server
