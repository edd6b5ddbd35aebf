// Package sanitize cleans transcript-derived text before it reaches the
// terminal.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

var xmlTagPattern = regexp.MustCompile(
	`</?(?:local-command-(?:stdout|stderr|caveat)|command-(?:output|name|args|message)|` +
		`system-reminder|task-(?:id|notification)|persisted-output|thinking|tool-use-id|` +
		`tool|skill-name|plugin-id)(?:\s[^>]*)?/?>`,
)

// CSI and OSC sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\a\x1b]*(?:\a|\x1b\\)`)

// StripTags removes Claude Code XML wrapper tags from text.
func StripTags(text string) string {
	return strings.TrimSpace(xmlTagPattern.ReplaceAllString(text, ""))
}

// StripANSI removes terminal escape sequences.
func StripANSI(text string) string {
	return ansiPattern.ReplaceAllString(text, "")
}

// Display makes prose safe for a single statusline cell: wrapper tags are
// removed before Plain is applied.
func Display(text string) string {
	return Plain(StripTags(text))
}

// Plain removes escape sequences, turns any whitespace run into one space
// and drops remaining control characters. Angle brackets are kept, so tool
// names and targets such as grep patterns pass through unchanged.
func Plain(text string) string {
	text = StripANSI(text)

	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
