package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Explore the parser", "Explore the parser"},
		{"command-name", "<command-name>/review</command-name>", "/review"},
		{"command-args with attrs", `<command-args id="1">-la</command-args>`, "-la"},
		{"local-command-stdout", "<local-command-stdout>ok</local-command-stdout>", "ok"},
		{"system-reminder", "<system-reminder>note</system-reminder>", "note"},
		{"task-notification", "<task-notification>done</task-notification>", "done"},
		{"self-closing", "<thinking/>text", "text"},
		{"several", "<thinking>plan</thinking> and <tool>act</tool>", "plan and act"},
		{"only tags", "  <tool></tool>  ", ""},
		{"html untouched", "<b>bold</b>", "<b>bold</b>"},
		{"unknown tag untouched", "<custom-tag>x</custom-tag>", "<custom-tag>x</custom-tag>"},
		{"longer name untouched", "<toolbar>x</toolbar>", "<toolbar>x</toolbar>"},
		{"prefix of name untouched", "<thinkingcap", "<thinkingcap"},
		{"attrs after space", `<tool name="x">y</tool>`, "y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.input))
		})
	}
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "red text", StripANSI("\x1b[31mred\x1b[0m text"))
	assert.Equal(t, "title", StripANSI("\x1b]0;evil\atitle"))
	assert.Equal(t, "link", StripANSI("\x1b]8;;http://x\x1b\\link\x1b]8;;\x1b\\"))
	assert.Equal(t, "no escapes", StripANSI("no escapes"))
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Fix login bug", "Fix login bug"},
		{"newlines collapse", "line one\n\n  line two\t end", "line one line two end"},
		{"leading and trailing space", "  padded \n", "padded"},
		{"escape sequences", "\x1b[1;32mgreen\x1b[0m", "green"},
		{"bare control chars", "a\x07b\x00c\x1bd", "abcd"},
		{"wrapped", "<command-message>review code</command-message>\n", "review code"},
		{"unicode kept", "정리 작업 ✓", "정리 작업 ✓"},
		{"nbsp is space", "a\u00a0\u00a0b", "a b"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Display(tt.input))
		})
	}
}

func TestPlain_KeepsAngleBrackets(t *testing.T) {
	assert.Equal(t, "<toolbar>|<thinking>", Plain("<toolbar>|<thinking>"))
	assert.Equal(t, "grep -n <tool> x", Plain("grep -n\t<tool>\x1b[31m x"))
}
