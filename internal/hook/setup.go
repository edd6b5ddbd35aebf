package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/heimdall/internal/config"
)

// DefaultCommand is the statusLine command written by Install.
const DefaultCommand = "heimdall"

const backupSuffix = ".heimdall.bak"

// SettingsPath returns the path to <home>/.claude/settings.json.
func SettingsPath(home string) string {
	return filepath.Join(home, ".claude", "settings.json")
}

// Install points the statusLine of the settings file at command.
// Idempotent: returns nil when already installed. A foreign statusLine is
// replaced, with the previous file kept as a backup.
func Install(path, command string, out io.Writer) error {
	settings, err := readSettings(path)
	if err != nil {
		return err
	}

	current := statusLineCommand(settings)
	if current == command {
		fmt.Fprintf(out, "heimdall: statusLine already configured in %s\n", config.CompressHome(path))
		return nil
	}
	if current != "" {
		fmt.Fprintf(out, "heimdall: replacing statusLine command %q\n", current)
	}

	if err := backup(path); err != nil {
		return err
	}

	settings["statusLine"] = map[string]any{
		"type":    "command",
		"command": command,
		"padding": 0,
	}

	if err := writeSettings(path, settings); err != nil {
		return err
	}

	fmt.Fprintf(out, "heimdall: statusLine installed in %s\n", config.CompressHome(path))
	return nil
}

// Uninstall removes the statusLine entry when it runs heimdall.
// Idempotent: returns nil when not installed. Foreign entries are left alone.
func Uninstall(path string, out io.Writer) error {
	settings, err := readSettings(path)
	if err != nil {
		return err
	}

	if !IsHeimdallCommand(statusLineCommand(settings)) {
		fmt.Fprintf(out, "heimdall: statusLine not found in %s\n", config.CompressHome(path))
		return nil
	}

	if err := backup(path); err != nil {
		return err
	}

	delete(settings, "statusLine")

	if err := writeSettings(path, settings); err != nil {
		return err
	}

	fmt.Fprintf(out, "heimdall: statusLine removed from %s\n", config.CompressHome(path))
	return nil
}

// StatusLineCommand returns the configured statusLine command in the
// settings file, or "" when none is set or the file is unreadable.
func StatusLineCommand(path string) string {
	settings, err := readSettings(path)
	if err != nil {
		return ""
	}
	return statusLineCommand(settings)
}

// IsHeimdallCommand reports whether a statusLine command runs heimdall.
func IsHeimdallCommand(cmd string) bool {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false
	}
	return filepath.Base(fields[0]) == DefaultCommand
}

func statusLineCommand(settings map[string]any) string {
	sl, ok := settings["statusLine"].(map[string]any)
	if !ok {
		return ""
	}
	cmd, _ := sl["command"].(string)
	return cmd
}

// readSettings reads and parses the settings file.
// Returns an empty map if the file doesn't exist or is empty.
func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", config.CompressHome(path), err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return make(map[string]any), nil
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", config.CompressHome(path), err)
	}
	if settings == nil {
		settings = make(map[string]any)
	}
	return settings, nil
}

// writeSettings writes the settings map as pretty-printed JSON.
// Creates the parent directory if needed.
func writeSettings(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", config.CompressHome(path), err)
	}
	return nil
}

// backup copies the settings file to path.heimdall.bak. No-op if source
// doesn't exist.
func backup(path string) error {
	src, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("backup: open %s: %w", config.CompressHome(path), err)
	}
	defer src.Close()

	dst, err := os.Create(path + backupSuffix)
	if err != nil {
		return fmt.Errorf("backup: create %s%s: %w", config.CompressHome(path), backupSuffix, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("backup: copy: %w", err)
	}
	return nil
}
