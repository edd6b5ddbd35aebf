package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// palette holds one style per color the statusline uses.
type palette struct {
	red, green, yellow, blue, magenta, cyan, brightCyan, dim lipgloss.Style
}

func newPalette(profile termenv.Profile) palette {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }
	return palette{
		red:        fg("1"),
		green:      fg("2"),
		yellow:     fg("3"),
		blue:       fg("4"),
		magenta:    fg("5"),
		cyan:       fg("6"),
		brightCyan: fg("14"),
		dim:        r.NewStyle().Faint(true),
	}
}

// tool returns the style for a tool name. Unknown tools are green.
func (p palette) tool(name string) lipgloss.Style {
	switch name {
	case "Read", "WebFetch", "WebSearch":
		return p.cyan
	case "Write", "Edit", "MultiEdit", "NotebookEdit", "Task", "Agent", "Skill":
		return p.magenta
	case "Bash", "AskUserQuestion":
		return p.yellow
	case "Glob", "Grep":
		return p.blue
	default:
		return p.green
	}
}

// context picks the usage color. Claude Code auto-compacts at 80%.
func (p palette) context(percent int) lipgloss.Style {
	switch {
	case percent >= 80:
		return p.red
	case percent >= 60:
		return p.yellow
	default:
		return p.green
	}
}
