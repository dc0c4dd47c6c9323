package voice

import (
	"fmt"
	"strings"
)

// Defaults applied when the provider calls back without parameters.
const (
	DefaultEventName = "Untitled Event"
	DefaultEventTime = "soon"
)

// escaper covers the five characters reserved in the provider's markup
// dialect. Every piece of free text interpolated into the script goes
// through it.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Escape escapes the five XML-reserved characters in s.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Render produces the TwiML voice script spoken when a reminder call is
// answered: greeting, event name, start time, sign-off. Pure and
// stateless; empty inputs fall back to the defaults.
func Render(eventName, eventTime string) string {
	if eventName == "" {
		eventName = DefaultEventName
	}
	if eventTime == "" {
		eventTime = DefaultEventTime
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say voice="alice">
    Hello! This is your calendar reminder from Google Alert System.
  </Say>
  <Pause length="1"/>
  <Say voice="alice">
    You have an upcoming event: %s.
  </Say>
  <Pause length="1"/>
  <Say voice="alice">
    It starts at %s.
  </Say>
  <Pause length="1"/>
  <Say voice="alice">
    Have a great day!
  </Say>
</Response>`, Escape(eventName), Escape(eventTime))
}
