package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a command's help text for --help output.
func FormatTerminal(c Command) string {
	var sections []string

	title := "heimdall"
	if c.Name != "" {
		title += " " + c.Name
	}
	sections = append(sections, fmt.Sprintf("%s — %s", title, c.Synopsis))
	sections = append(sections, "Usage: "+c.Usage)

	// Args and flags share one description column.
	nameWidth := 0
	for _, a := range c.Args {
		nameWidth = max(nameWidth, len(a.Name))
	}
	for _, f := range c.Flags {
		nameWidth = max(nameWidth, len(f.Name))
	}

	if len(c.Args) > 0 {
		var b strings.Builder
		b.WriteString("Arguments:")
		for _, a := range c.Args {
			desc := a.Desc
			if a.Optional {
				desc += " (optional)"
			}
			fmt.Fprintf(&b, "\n  %-*s   %s", nameWidth, a.Name, desc)
		}
		sections = append(sections, b.String())
	}

	if len(c.Flags) > 0 {
		var b strings.Builder
		b.WriteString("Flags:")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "\n  %-*s   %s", nameWidth, f.Name, f.Desc)
		}
		sections = append(sections, b.String())
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		sections = append(sections, "Examples:\n  "+strings.Join(c.Examples, "\n  "))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatUsage renders the top-level usage text (heimdall help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "heimdall v%s — %s\n", Version, top.Synopsis)
	b.WriteString("\nUsage:\n")

	type entry struct {
		usage string
		brief string
	}
	entries := []entry{{top.Usage, "Render the statusline from stdin"}}
	for _, s := range subs {
		entries = append(entries, entry{s.tableUsage(), s.Brief})
	}
	entries = append(entries, entry{"heimdall help [command]", "Show help"})

	width := 0
	for _, e := range entries {
		width = max(width, len(e.usage))
	}
	for _, e := range entries {
		fmt.Fprintf(&b, "  %-*s   %s\n", width, e.usage, e.brief)
	}

	b.WriteString(`
Claude Code integration (~/.claude/settings.json):
  "statusLine": {"type": "command", "command": "heimdall"}

Configuration: ~/.config/heimdall/config.toml
`)
	return b.String()
}
