package help

// Row describes one statusline row for the man page.
type Row struct {
	Name     string
	Sample   string
	Desc     string
	Optional bool // omitted when there is nothing to show
}

// Rows lists the statusline rows in output order.
var Rows = []Row{
	{
		Name:   "workspace",
		Sample: "~/project (main) S:2 M:1 │ ↑1↓0 │ v2.1.9 │ SUB:3 │ MCP:2 │ 🕐 22:30",
		Desc:   "Project directory, git branch, staged and modified counts, upstream sync, Claude Code version, submodules, connected MCP servers and the clock.",
	},
	{
		Name:   "session",
		Sample: "🧠 Opus 4.5 │ $0.05 │ +96/-38 │ ████░░░░░░ 40% │ ⏱ 1h 5m",
		Desc:   "Model, session cost, lines added and removed, context window usage and session length.",
	},
	{
		Name:     "completed",
		Sample:   "Edit×3 | Bash×2 | Read │ ✓ Explore×2",
		Desc:     "Finished tools and subagents grouped by name, most frequent first.",
		Optional: true,
	},
	{
		Name:     "running",
		Sample:   "⠋ Read(src/main.go) | ● Explore (find handlers) 1:05",
		Desc:     "Tools still running with their target, and running subagents with their description and elapsed time.",
		Optional: true,
	},
	{
		Name:     "mcp",
		Sample:   "🔌 MCP ✓4 │ ⠋ github/search_issues",
		Desc:     "Completed MCP tool calls and the ones still running. Hidden by display.show_mcp_line = false.",
		Optional: true,
	},
	{
		Name:   "progress",
		Sample: "▸ [Write tests] (1/3) │ RESET at 14:00 (3h 30m left)",
		Desc:   "The todo in progress with the done count, and the next usage reset.",
	},
}

// ConfigKey describes one config.toml key. Key is dotted by table.
type ConfigKey struct {
	Key     string
	Default string // TOML literal
	Desc    string
}

// ConfigKeys lists every key heimdall reads, grouped by table.
var ConfigKeys = []ConfigKey{
	{"debug", "false", "Log debug diagnostics to stderr."},
	{"home_dir", `""`, "Home used for ~ display and user settings; empty means $HOME."},
	{"transcript.max_tools", "20", "Most recent tools kept from the transcript."},
	{"transcript.max_agents", "10", "Most recent subagents kept from the transcript."},
	{"transcript.max_line_bytes", "10485760", "Longer transcript lines are skipped."},
	{"git.enabled", "true", "Query git for the workspace row."},
	{"git.timeout_ms", "1000", "Per git call; 0 waits forever."},
	{"reset.anchors_utc", "[0, 4, 9, 14, 19]", "UTC hours at which the usage block resets."},
	{"reset.timezone", `""`, "IANA zone for the reset time; empty means local time."},
	{"display.nbsp", "true", "Emit spaces as U+00A0 so the host cannot collapse them."},
	{"display.max_width", "0", "Truncate rows to this many cells; 0 is unlimited."},
	{"display.show_mcp_line", "true", "Show the mcp row while MCP tools run."},
	{"display.description_width", "40", "Clip subagent descriptions and todo text to this many cells."},
	{"stdin.timeout_ms", "2000", "Give up on stdin after this long; 0 waits forever."},
}

// File is a path heimdall reads or writes.
type File struct {
	Path string
	Desc string
}

var (
	FileConfig   = File{"~/.config/heimdall/config.toml", "heimdall configuration; $XDG_CONFIG_HOME/heimdall/config.toml takes precedence."}
	FileSettings = File{"~/.claude/settings.json", "Claude Code user settings holding the statusLine entry."}
	FileBackup   = File{"~/.claude/settings.json.heimdall.bak", "Copy of settings.json taken before install or uninstall changes it."}
)

// EnvVar is an environment variable heimdall honours.
type EnvVar struct {
	Name string
	Desc string
}

var Environment = []EnvVar{
	{"NO_COLOR", "Disable colors and the trailing reset sequence."},
	{"CLICOLOR", "Set to 0 to disable colors."},
	{"XDG_CONFIG_HOME", "Base directory for config.toml."},
	{"HOME", "Default home for ~ display and ~/.claude."},
}
