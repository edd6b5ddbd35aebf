package help

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suykerbuyk/heimdall/internal/config"
)

func TestFormatTerminal_Watch(t *testing.T) {
	want := "heimdall watch — re-render the statusline as the transcript grows\n" +
		"\n" +
		"Usage: heimdall watch --input <file>\n" +
		"\n" +
		"Flags:\n" +
		"  --input <file>   Saved stdin snapshot to render from\n" +
		"  --clear          Clear the screen before each render\n" +
		"\n" +
		"Renders once from a saved snapshot, then again whenever the transcript\n" +
		"it names changes, until interrupted. Useful for previewing the\n" +
		"statusline outside Claude Code.\n" +
		"\n" +
		"Examples:\n" +
		"  heimdall watch --input snapshot.json\n" +
		"  heimdall watch --input snapshot.json --clear\n"

	assert.Equal(t, want, FormatTerminal(CmdWatch))
}

func TestFormatTerminal_Minimal(t *testing.T) {
	assert.Equal(t, "heimdall version — print version\n\nUsage: heimdall version\n", FormatTerminal(CmdVersion))
}

func TestFormatTerminal_TopLevel(t *testing.T) {
	out := FormatTerminal(TopLevel)
	assert.True(t, strings.HasPrefix(out, "heimdall — multi-line statusline for Claude Code\n"))
	assert.Contains(t, out, "  --debug   Log diagnostics to stderr")
}

func TestFormatTerminal_OptionalArg(t *testing.T) {
	c := Command{
		Name:     "demo",
		Synopsis: "demo",
		Usage:    "heimdall demo [dir]",
		Args:     []Arg{{Name: "dir", Desc: "Output directory", Optional: true}},
		Flags:    []Flag{{Name: "--force", Desc: "Overwrite"}},
	}
	out := FormatTerminal(c)
	assert.Contains(t, out, "Arguments:\n  dir       Output directory (optional)\n")
	assert.Contains(t, out, "Flags:\n  --force   Overwrite\n")
}

func TestFormatUsage(t *testing.T) {
	old := Version
	Version = "1.2.3"
	t.Cleanup(func() { Version = old })

	out := FormatUsage(TopLevel, Subcommands)

	lines := strings.Split(out, "\n")
	assert.Equal(t, "heimdall v1.2.3 — multi-line statusline for Claude Code", lines[0])
	assert.Contains(t, out, "  heimdall [--debug]                   Render the statusline from stdin\n")
	assert.Contains(t, out, "  heimdall install [--command <cmd>]   Set the statusLine in settings.json\n")
	assert.Contains(t, out, "  heimdall help [command]              Show help\n")
	assert.Contains(t, out, `"statusLine": {"type": "command", "command": "heimdall"}`)
}

func TestRegistryCompleteness(t *testing.T) {
	names := []string{"install", "uninstall", "check", "watch", "config", "version"}
	require.Len(t, Subcommands, len(names))
	for i, name := range names {
		c := Subcommands[i]
		assert.Equal(t, name, c.Name)
		assert.NotEmpty(t, c.Synopsis, name)
		assert.NotEmpty(t, c.Usage, name)
		assert.NotEmpty(t, c.Brief, name)
	}
	for _, c := range ConfigSubcommands {
		assert.True(t, strings.HasPrefix(c.Name, "config "), c.Name)
	}
}

func TestManNameAndLeaf(t *testing.T) {
	tests := []struct {
		name, man, leaf string
	}{
		{"", "heimdall", ""},
		{"check", "heimdall-check", "check"},
		{"config init", "heimdall-config-init", "init"},
	}
	for _, tt := range tests {
		c := Command{Name: tt.name}
		assert.Equal(t, tt.man, c.ManName())
		assert.Equal(t, tt.leaf, c.Leaf())
	}
}

func TestEscapeRoff(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`simple text`, `simple text`},
		{`back\slash`, `back\\slash`},
		{`.leading dot`, `\&.leading dot`},
		{"line1\n.line2", "line1\n\\&.line2"},
		{`--input`, `\-\-input`},
		{`.heimdall.bak`, `\&.heimdall.bak`},
		{`'quoted`, `\&'quoted`},
		{"mid.dot and it's", "mid.dot and it's"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeRoff(tt.input), tt.input)
	}
}

func TestFormatRoffStructure(t *testing.T) {
	for _, cmd := range append(append([]Command{}, Subcommands...), ConfigSubcommands...) {
		t.Run(cmd.Name, func(t *testing.T) {
			out := FormatRoff(cmd, "2026-03-01")

			assert.Contains(t, out, ".TH "+strings.ToUpper(cmd.ManName())+" 1 \"2026-03-01\"")
			assert.Contains(t, out, ".SH NAME\n"+cmd.ManName()+` \- `)
			assert.Contains(t, out, ".SH SYNOPSIS")
			if cmd.Description != "" {
				assert.Contains(t, out, ".SH DESCRIPTION")
			}
			if len(cmd.Args) > 0 || len(cmd.Flags) > 0 {
				assert.Contains(t, out, ".SH OPTIONS")
			}
			if len(cmd.Examples) > 0 {
				assert.Contains(t, out, ".SH EXAMPLES")
			}
			if len(cmd.SeeAlso) > 0 {
				assert.Contains(t, out, ".SH SEE ALSO")
			}
		})
	}
}

func TestFormatRoffTopLevel(t *testing.T) {
	out := FormatRoffTopLevel(TopLevel, Subcommands, "2026-03-01")

	for _, section := range []string{
		".TH HEIMDALL 1", ".SH NAME", ".SH SYNOPSIS", ".SH DESCRIPTION", ".SH STATUSLINE",
		".SH COMMANDS", ".SH OPTIONS", ".SH CONFIGURATION", ".SH FILES", ".SH ENVIRONMENT",
		".SH EXIT STATUS", ".SH SEE ALSO",
	} {
		assert.Contains(t, out, section)
	}
	for _, cmd := range Subcommands {
		assert.Contains(t, out, escapeRoff(cmd.Brief))
		assert.Contains(t, out, ".BR "+escapeRoff(cmd.ManName())+" (1)")
	}
	for _, r := range Rows {
		assert.Contains(t, out, escapeRoff(r.Sample))
	}
	assert.Contains(t, out, ".B \"mcp (optional)\"\n")
	assert.Contains(t, out, ".SS [display]\n.TP\n.B \"nbsp = true\"\n")
	assert.Contains(t, out, ".B NO_COLOR\n")
	assert.Contains(t, out, ".B ~/.config/heimdall/config.toml\n")
}

func TestFormatRoffTopLevel_SectionOrder(t *testing.T) {
	out := FormatRoffTopLevel(TopLevel, Subcommands, "2026-03-01")
	last := -1
	for _, section := range []string{"NAME", "SYNOPSIS", "DESCRIPTION", "STATUSLINE", "COMMANDS", "CONFIGURATION", "FILES", "ENVIRONMENT", "SEE ALSO"} {
		i := strings.Index(out, ".SH "+section+"\n")
		require.GreaterOrEqual(t, i, 0, section)
		assert.Greater(t, i, last, section)
		last = i
	}
}

func TestFormatRoff_ConfigInitListsKeys(t *testing.T) {
	out := FormatRoff(CmdConfigInit, "2026-03-01")
	assert.Contains(t, out, ".SH CONFIGURATION")
	assert.Contains(t, out, ".B \"debug = false\"\n")
	assert.Contains(t, out, ".SS [reset]\n")
	assert.Contains(t, out, `anchors_utc = [0, 4, 9, 14, 19]`)
	assert.Contains(t, out, ".SH FILES\n.TP\n.B ~/.config/heimdall/config.toml\n")

	assert.NotContains(t, FormatRoff(CmdVersion, "2026-03-01"), ".SH CONFIGURATION")
}

func TestFormatRoff_InstallListsFiles(t *testing.T) {
	out := FormatRoff(CmdInstall, "2026-03-01")
	assert.Contains(t, out, ".SH FILES\n")
	assert.Contains(t, out, ".B ~/.claude/settings.json\n")
	assert.Contains(t, out, ".B ~/.claude/settings.json.heimdall.bak\n")
	assert.Contains(t, out, ".B \"\\-\\-command <cmd>\"\n")
}

// ConfigKeys must name real keys with the defaults config.DefaultConfig uses.
func TestConfigKeysMatchDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, toml.NewEncoder(&buf).Encode(config.DefaultConfig()))
	var defaults map[string]any
	_, err := toml.Decode(buf.String(), &defaults)
	require.NoError(t, err)

	seen := 0
	for _, k := range ConfigKeys {
		t.Run(k.Key, func(t *testing.T) {
			var want any = defaults
			for _, part := range strings.Split(k.Key, ".") {
				table, ok := want.(map[string]any)
				require.True(t, ok, "%s is not a table", part)
				want, ok = table[part]
				require.True(t, ok, "%s missing from DefaultConfig", k.Key)
			}

			var doc map[string]any
			_, err := toml.Decode("v = "+k.Default, &doc)
			require.NoError(t, err)
			assert.Equal(t, want, doc["v"])
		})
		seen++
	}

	total := 0
	for _, v := range defaults {
		if table, ok := v.(map[string]any); ok {
			total += len(table)
		} else {
			total++
		}
	}
	assert.Equal(t, total, seen, "every config key is documented")
}
