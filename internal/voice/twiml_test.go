package voice

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ampersand", "A & B", "A &amp; B"},
		{"angle brackets", "<script>", "&lt;script&gt;"},
		{"quotes", `say "hi"`, "say &quot;hi&quot;"},
		{"apostrophe", "John's 1:1", "John&apos;s 1:1"},
		{"all five", `<&>"'`, "&lt;&amp;&gt;&quot;&apos;"},
		{"clean text", "Standup", "Standup"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.input))
		})
	}
}

func TestRenderEscapesEventName(t *testing.T) {
	out := Render("A & B", "3 pm")

	assert.Contains(t, out, "A &amp; B")
	// No raw ampersand may survive outside of entity references.
	stripped := strings.NewReplacer("&amp;", "", "&lt;", "", "&gt;", "", "&quot;", "", "&apos;", "").Replace(out)
	assert.NotContains(t, stripped, "&")
}

func TestRenderDefaults(t *testing.T) {
	out := Render("", "")

	assert.Contains(t, out, DefaultEventName)
	assert.Contains(t, out, DefaultEventTime)
}

func TestRenderScriptShape(t *testing.T) {
	out := Render("Standup", "9:00 AM")

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, "You have an upcoming event: Standup.")
	assert.Contains(t, out, "It starts at 9:00 AM.")
	assert.Contains(t, out, "Have a great day!")
	assert.Equal(t, 4, strings.Count(out, `<Say voice="alice">`))
	assert.Equal(t, 3, strings.Count(out, `<Pause length="1"/>`))
}

func TestRenderIsWellFormedXML(t *testing.T) {
	// Hostile input must still produce parseable markup.
	out := Render(`<Hangup/> & "friends"`, "'now'")

	var doc struct {
		XMLName xml.Name `xml:"Response"`
		Say     []string `xml:"Say"`
	}
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Say, 4)
	assert.Contains(t, doc.Say[1], `<Hangup/> & "friends"`)
}
