// Package check implements the `heimdall check` environment diagnostics.
package check

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/heimdall/internal/claudecfg"
	"github.com/suykerbuyk/heimdall/internal/config"
	"github.com/suykerbuyk/heimdall/internal/hook"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "heimdall check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		maxName = max(maxName, len(res.Name))
	}

	var b strings.Builder
	b.WriteString("heimdall check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports which config file applies. Always passes: broken TOML
// fails config.Load before checks run.
func CheckConfig(path string) Result {
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "config", Status: Pass, Detail: "defaults (" + config.CompressHome(path) + " not found)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckGit reports whether git status can be shown.
func CheckGit(cfg config.GitConfig, lookPath func(string) (string, error)) Result {
	if !cfg.Enabled {
		return Result{Name: "git", Status: Pass, Detail: "disabled"}
	}
	path, err := lookPath("git")
	if err != nil {
		return Result{Name: "git", Status: Warn, Detail: "git not on PATH (branch and sync status hidden)"}
	}
	return Result{Name: "git", Status: Pass, Detail: path}
}

// CheckTimezone validates the reset display zone.
func CheckTimezone(cfg config.Config) Result {
	loc, err := cfg.Location()
	if err != nil {
		return Result{Name: "timezone", Status: Fail, Detail: err.Error()}
	}
	return Result{Name: "timezone", Status: Pass, Detail: fmt.Sprintf("%s, anchors %v UTC", loc, cfg.Anchors())}
}

// CheckClaudeDir checks for the ~/.claude directory.
func CheckClaudeDir(home string) Result {
	dir := filepath.Join(home, ".claude")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return Result{Name: "claude", Status: Pass, Detail: config.CompressHomeDir(dir, home)}
	}
	return Result{Name: "claude", Status: Warn, Detail: config.CompressHomeDir(dir, home) + " not found (Claude Code not run yet)"}
}

// CheckStatusLine checks that settings.json runs heimdall as its statusLine.
func CheckStatusLine(settingsPath string) Result {
	cmd := hook.StatusLineCommand(settingsPath)
	shown := config.CompressHome(settingsPath)
	switch {
	case hook.IsHeimdallCommand(cmd):
		return Result{Name: "statusline", Status: Pass, Detail: fmt.Sprintf("%q in %s", cmd, shown)}
	case cmd != "":
		return Result{Name: "statusline", Status: Warn, Detail: fmt.Sprintf("%s runs %q, not heimdall", shown, cmd)}
	default:
		return Result{Name: "statusline", Status: Fail, Detail: "not configured in " + shown + " (run: heimdall install)"}
	}
}

// CheckTranscripts counts session transcripts under ~/.claude/projects.
func CheckTranscripts(home string) Result {
	dir := filepath.Join(home, ".claude", "projects")
	if _, err := os.Stat(dir); err != nil {
		return Result{Name: "transcripts", Status: Warn, Detail: config.CompressHomeDir(dir, home) + " not found"}
	}
	n := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && (strings.HasSuffix(path, ".jsonl") || strings.HasSuffix(path, ".jsonl.zst")) {
			n++
		}
		return nil
	})
	return Result{Name: "transcripts", Status: Pass, Detail: fmt.Sprintf("%d transcripts", n)}
}

// CheckProject reports the Claude Code configuration visible from dir.
func CheckProject(dir, home string) Result {
	if dir == "" {
		return Result{Name: "project", Status: Warn, Detail: "working directory unknown"}
	}
	c := claudecfg.Count(dir, home, nil)
	return Result{Name: "project", Status: Pass, Detail: fmt.Sprintf(
		"%s: CLAUDE.md %d, rules %d, MCP servers %d, hooks %d",
		config.CompressHomeDir(dir, home), c.ClaudeMD, c.Rules, c.MCPServers, c.Hooks)}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config) Report {
	cwd, _ := os.Getwd()
	return Report{Results: []Result{
		CheckConfig(config.ConfigPath()),
		CheckGit(cfg.Git, exec.LookPath),
		CheckTimezone(cfg),
		CheckClaudeDir(cfg.HomeDir),
		CheckStatusLine(hook.SettingsPath(cfg.HomeDir)),
		CheckTranscripts(cfg.HomeDir),
		CheckProject(cwd, cfg.HomeDir),
	}}
}
