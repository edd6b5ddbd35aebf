package hook

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, '\n'), 0o644))
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestInstall_NoFile(t *testing.T) {
	path := SettingsPath(setupHome(t))
	var out bytes.Buffer

	require.NoError(t, Install(path, DefaultCommand, &out))

	assert.Equal(t, DefaultCommand, StatusLineCommand(path))
	assert.Contains(t, out.String(), "statusLine installed in ~/.claude/settings.json")

	_, err := os.Stat(path + backupSuffix)
	assert.True(t, os.IsNotExist(err), "backup should not exist for fresh install")
}

func TestInstall_EmptyFile(t *testing.T) {
	path := SettingsPath(setupHome(t))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	require.NoError(t, Install(path, DefaultCommand, &bytes.Buffer{}))
	assert.Equal(t, DefaultCommand, StatusLineCommand(path))
}

func TestInstall_PreservesOtherSettings(t *testing.T) {
	path := SettingsPath(setupHome(t))
	writeJSON(t, path, map[string]any{
		"model": "opus",
		"hooks": map[string]any{"Stop": []any{}},
	})

	require.NoError(t, Install(path, DefaultCommand, &bytes.Buffer{}))

	settings := readJSON(t, path)
	assert.Equal(t, "opus", settings["model"])
	assert.Contains(t, settings, "hooks")
	sl := settings["statusLine"].(map[string]any)
	assert.Equal(t, "command", sl["type"])

	_, err := os.Stat(path + backupSuffix)
	assert.NoError(t, err, "existing file should be backed up")
}

func TestInstall_Idempotent(t *testing.T) {
	path := SettingsPath(setupHome(t))
	require.NoError(t, Install(path, DefaultCommand, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, Install(path, DefaultCommand, &out))
	assert.Contains(t, out.String(), "already configured")
}

func TestInstall_ReplacesForeignStatusLine(t *testing.T) {
	path := SettingsPath(setupHome(t))
	writeJSON(t, path, map[string]any{
		"statusLine": map[string]any{"type": "command", "command": "ccline"},
	})

	var out bytes.Buffer
	require.NoError(t, Install(path, DefaultCommand, &out))

	assert.Contains(t, out.String(), `replacing statusLine command "ccline"`)
	assert.Equal(t, DefaultCommand, StatusLineCommand(path))

	old := readJSON(t, path+backupSuffix)
	assert.Equal(t, "ccline", old["statusLine"].(map[string]any)["command"])
}

func TestInstall_InvalidJSON(t *testing.T) {
	path := SettingsPath(setupHome(t))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	err := Install(path, DefaultCommand, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestUninstall(t *testing.T) {
	path := SettingsPath(setupHome(t))
	writeJSON(t, path, map[string]any{
		"model":      "opus",
		"statusLine": map[string]any{"type": "command", "command": "/usr/local/bin/heimdall --debug"},
	})

	var out bytes.Buffer
	require.NoError(t, Uninstall(path, &out))

	settings := readJSON(t, path)
	assert.NotContains(t, settings, "statusLine")
	assert.Equal(t, "opus", settings["model"])
	assert.Contains(t, out.String(), "statusLine removed")
}

func TestUninstall_LeavesForeignStatusLine(t *testing.T) {
	path := SettingsPath(setupHome(t))
	writeJSON(t, path, map[string]any{
		"statusLine": map[string]any{"type": "command", "command": "ccline"},
	})

	var out bytes.Buffer
	require.NoError(t, Uninstall(path, &out))

	assert.Equal(t, "ccline", StatusLineCommand(path))
	assert.Contains(t, out.String(), "not found")
}

func TestIsHeimdallCommand(t *testing.T) {
	assert.True(t, IsHeimdallCommand("heimdall"))
	assert.True(t, IsHeimdallCommand("/opt/bin/heimdall --debug"))
	assert.False(t, IsHeimdallCommand("heimdall-other"))
	assert.False(t, IsHeimdallCommand(""))
}
