package help

import "strings"

// Version is the heimdall release version, set at build time via -ldflags.
// Defaults to "dev" when built without version injection (e.g. `go run`).
var Version = "dev"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--debug" or "--input <file>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string
	Desc     string
	Optional bool
}

// Command describes a heimdall subcommand (or the top-level binary when Name
// is "").
type Command struct {
	Name        string   // "install", "config init", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line, e.g. "heimdall watch --input <file>"
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "heimdall(1)"
	Files       []File
	ListConfig  bool // man page documents every config.toml key
}

func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "heimdall" for top-level,
// "heimdall-<name>" for subcommands ("config init" → "heimdall-config-init").
func (c Command) ManName() string {
	if c.Name == "" {
		return "heimdall"
	}
	return "heimdall-" + strings.ReplaceAll(c.Name, " ", "-")
}

// Leaf returns the last word of Name, the cobra Use for nested commands.
func (c Command) Leaf() string {
	if i := strings.LastIndex(c.Name, " "); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

var TopLevel = Command{
	Name:     "",
	Synopsis: "multi-line statusline for Claude Code",
	Usage:    "heimdall [--debug]",
	Flags: []Flag{
		{Name: "--debug", Desc: "Log diagnostics to stderr"},
	},
	Description: `Reads the statusLine JSON snapshot that Claude Code writes to stdin,
folds the session transcript into recent tool, subagent and todo
activity, adds git status, config counts and the usage reset timer,
and prints the statusline rows to stdout.

Exits 1 with a message on stderr when stdin is missing or is not valid
JSON. Every other problem (unreadable transcript, no git, missing
settings) degrades to an emptier statusline.`,
	Examples: []string{
		"heimdall < snapshot.json          Render once from a saved snapshot",
		"heimdall --debug < snapshot.json  Also log skipped transcript lines",
	},
}

var CmdInstall = Command{
	Name:     "install",
	Synopsis: "set heimdall as the Claude Code statusLine",
	Brief:    "Set the statusLine in settings.json",
	Usage:    "heimdall install [--command <cmd>]",
	Flags: []Flag{
		{Name: "--command <cmd>", Desc: "Command to write (default: heimdall)"},
	},
	Description: `Writes {"type": "command", "command": "heimdall"} as the statusLine of
~/.claude/settings.json.

Creates the settings file and parent directory if they don't exist.
Preserves all other settings. A backup is saved to
settings.json.heimdall.bak before any modification. A statusLine that
runs another program is replaced.

This command is idempotent: running it when heimdall is already
configured prints an informational message and exits successfully.`,
	SeeAlso: []string{"heimdall(1)", "heimdall-uninstall(1)", "heimdall-check(1)"},
	Files:   []File{FileSettings, FileBackup},
}

var CmdUninstall = Command{
	Name:     "uninstall",
	Synopsis: "remove heimdall from the Claude Code statusLine",
	Brief:    "Remove the statusLine from settings.json",
	Usage:    "heimdall uninstall",
	Description: `Removes the statusLine entry from ~/.claude/settings.json when it runs
heimdall. A statusLine that runs another program is left alone.
A backup is saved to settings.json.heimdall.bak before any modification.`,
	SeeAlso: []string{"heimdall(1)", "heimdall-install(1)"},
	Files:   []File{FileSettings, FileBackup},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config, settings and environment",
	Brief:    "Validate setup and report status",
	Usage:    "heimdall check",
	Description: `Reports the config file in use, whether git is available, the reset
timezone, the ~/.claude directory, the statusLine entry in
settings.json, the number of session transcripts and the Claude Code
configuration (CLAUDE.md, rules, MCP servers, hooks) seen from the
current directory.

Exits 1 if any check fails.`,
	SeeAlso: []string{"heimdall(1)", "heimdall-install(1)"},
	Files:   []File{FileConfig, FileSettings},
}

var CmdWatch = Command{
	Name:     "watch",
	Synopsis: "re-render the statusline as the transcript grows",
	Brief:    "Re-render on every transcript change",
	Usage:    "heimdall watch --input <file>",
	Flags: []Flag{
		{Name: "--input <file>", Desc: "Saved stdin snapshot to render from"},
		{Name: "--clear", Desc: "Clear the screen before each render"},
	},
	Description: `Renders once from a saved snapshot, then again whenever the transcript
it names changes, until interrupted. Useful for previewing the
statusline outside Claude Code.`,
	Examples: []string{
		"heimdall watch --input snapshot.json",
		"heimdall watch --input snapshot.json --clear",
	},
	SeeAlso: []string{"heimdall(1)"},
}

var CmdConfig = Command{
	Name:     "config",
	Synopsis: "manage the heimdall config file",
	Brief:    "Manage the config file",
	Usage:    "heimdall config <subcommand>",
	SeeAlso:  []string{"heimdall(1)", "heimdall-config-init(1)"},
}

var CmdConfigInit = Command{
	Name:     "config init",
	Synopsis: "write a default config file",
	Brief:    "Write a default config.toml",
	Usage:    "heimdall config init",
	Description: `Writes a commented default config to
$XDG_CONFIG_HOME/heimdall/config.toml (or ~/.config/heimdall/config.toml).
An existing file is left untouched.`,
	SeeAlso:    []string{"heimdall(1)", "heimdall-config(1)"},
	Files:      []File{FileConfig},
	ListConfig: true,
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "heimdall version",
	SeeAlso:  []string{"heimdall(1)"},
}

// ConfigSubcommands is the ordered list of config sub-subcommands.
var ConfigSubcommands = []Command{
	CmdConfigInit,
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdInstall,
	CmdUninstall,
	CmdCheck,
	CmdWatch,
	CmdConfig,
	CmdVersion,
}
