package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suykerbuyk/heimdall/internal/hook"
)

// isolate points HOME and the config dir at temp dirs and disables color.
func isolate(t *testing.T) (home, xdg string) {
	t.Helper()
	home = t.TempDir()
	xdg = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("NO_COLOR", "1")
	return home, xdg
}

func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(&app{stdin: strings.NewReader(stdin), stdout: &out, stderr: &errOut})
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func snapshot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	transcriptPath := filepath.Join(dir, "session.jsonl")
	lines := []string{
		`{"timestamp":"2026-02-22T09:00:00Z","message":{"content":[{"type":"tool_use","id":"r1","name":"Read","input":{"file_path":"main.go"}}]}}`,
		`{"message":{"content":[{"type":"tool_result","tool_use_id":"r1"}]}}`,
		`not json at all`,
		`{"message":{"content":[{"type":"tool_use","id":"t1","name":"TodoWrite","input":{"todos":[{"content":"Write tests","status":"in_progress"}]}}]}}`,
		`{"message":{"content":[{"type":"tool_use","id":"b1","name":"Bash","input":{"command":"go test ./..."}}]}}`,
	}
	require.NoError(t, os.WriteFile(transcriptPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	return `{
  "transcript_path": "` + transcriptPath + `",
  "model": {"id": "claude-sonnet-4-5", "display_name": "Sonnet 4.5"},
  "workspace": {"current_dir": "` + dir + `", "project_dir": "` + dir + `"},
  "version": "2.1.9",
  "cost": {"total_cost_usd": 1.234, "total_lines_added": 10, "total_lines_removed": 2},
  "context_window": {"context_window_size": 200000, "used_percentage": 12}
}`
}

func TestRender_FromStdin(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, snapshot(t))
	require.NoError(t, err)

	out := strings.ReplaceAll(stdout, "\u00a0", " ")
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "│ v2.1.9 │ MCP:-- │ 🕐 ")
	assert.Equal(t, "🎵 Sonnet 4.5 │ $1.23 │ +10/-2 │ █░░░░░░░░░ 12%", lines[1][:strings.Index(lines[1], "12%")+3])
	assert.Equal(t, "Read", lines[2])
	assert.Contains(t, lines[3], "Bash(go test ./...)")
	assert.Contains(t, lines[4], "▸ [Write tests] (0/1) │ RESET at ")
	assert.NotContains(t, stdout, " ", "spaces are emitted as NBSP")
}

func TestRender_FatalStdin(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		wantErr string
	}{
		{"empty", "", hook.ErrEmptyInput.Error()},
		{"null", "null", hook.ErrEmptyInput.Error()},
		{"invalid", `{"model":`, "parse stdin JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			stdout, _, err := run(t, tt.stdin)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, stdout, "no partial output on the fatal path")
		})
	}
}

func TestRender_BrokenConfigFallsBack(t *testing.T) {
	_, xdg := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(xdg, "heimdall"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "heimdall", "config.toml"), []byte("debug = ["), 0o644))

	stdout, stderr, err := run(t, snapshot(t))
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
	assert.Contains(t, stderr, "using default config")

	_, _, err = run(t, "", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRender_MissingTranscript(t *testing.T) {
	isolate(t)
	stdout, _, err := run(t, `{"transcript_path":"/nonexistent/x.jsonl","cwd":"/"}`)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(stdout, "\n"))
}

func TestInstallUninstall(t *testing.T) {
	home, _ := isolate(t)
	settings := hook.SettingsPath(home)

	_, stderr, err := run(t, "", "install")
	require.NoError(t, err)
	assert.Contains(t, stderr, "statusLine installed")
	assert.Equal(t, "heimdall", hook.StatusLineCommand(settings))

	_, _, err = run(t, "", "install", "--command", "/opt/heimdall --debug")
	require.NoError(t, err)
	assert.Equal(t, "/opt/heimdall --debug", hook.StatusLineCommand(settings))

	_, stderr, err = run(t, "", "uninstall")
	require.NoError(t, err)
	assert.Contains(t, stderr, "statusLine removed")
	assert.Empty(t, hook.StatusLineCommand(settings))
}

func TestCheck(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "", "check")
	assert.ErrorIs(t, err, errChecksFailed)
	assert.True(t, strings.HasPrefix(stdout, "heimdall check\n"))
	assert.Contains(t, stdout, "FAIL  statusline")

	_, _, err = run(t, "", "install")
	require.NoError(t, err)
	stdout, _, err = run(t, "", "check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pass  statusline")
}

func TestConfigInit(t *testing.T) {
	_, xdg := isolate(t)

	_, stderr, err := run(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stderr, "wrote")
	assert.FileExists(t, filepath.Join(xdg, "heimdall", "config.toml"))

	_, stderr, err = run(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stderr, "already exists")
}

func TestVersion(t *testing.T) {
	isolate(t)
	stdout, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "heimdall vdev\n", stdout)
}

func TestHelp(t *testing.T) {
	isolate(t)

	stdout, _, err := run(t, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "heimdall install [--command <cmd>]")
	assert.Contains(t, stdout, "Configuration: ~/.config/heimdall/config.toml")

	stdout, _, err = run(t, "", "watch", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage: heimdall watch --input <file>")

	stdout, _, err = run(t, "", "config", "init", "--help")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "heimdall config init — write a default config file\n"))
}

func TestWatch_RequiresInput(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestUnknownArgs(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "", "bogus")
	assert.Error(t, err)
}

func TestGenMan(t *testing.T) {
	isolate(t)
	dir := filepath.Join(t.TempDir(), "man")

	stdout, _, err := run(t, "", "gen-man", dir)
	require.NoError(t, err)

	for _, name := range []string{"heimdall.1", "heimdall-install.1", "heimdall-config-init.1"} {
		assert.FileExists(t, filepath.Join(dir, name))
		assert.Contains(t, stdout, name)
	}
}
