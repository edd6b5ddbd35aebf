package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the heimdall config directory path.
// Uses $XDG_CONFIG_HOME/heimdall if set, otherwise ~/.config/heimdall.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "heimdall")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "heimdall")
}

// ConfigPath returns the path Load reads first.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

const defaultConfigTOML = `# heimdall statusline configuration

# Log debug diagnostics to stderr.
debug = false

# Home directory used for ~ display and ~/.claude settings.
# home_dir = "~"

[transcript]
max_tools = 20
max_agents = 10
max_line_bytes = 10485760

[git]
enabled = true
timeout_ms = 1000

[reset]
# UTC hours at which the usage block resets.
anchors_utc = [0, 4, 9, 14, 19]
# Display zone for the next reset time; empty means local time.
timezone = ""

[display]
nbsp = true
max_width = 0
show_mcp_line = true
description_width = 40

[stdin]
timeout_ms = 2000
`

// WriteDefault writes a default config.toml. Returns the config file path
// and whether a file was written; an existing file is left untouched.
func WriteDefault() (string, bool, error) {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTOML), 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}

	return path, true, nil
}

// CompressHome replaces $HOME prefix with ~/ for display.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return CompressHomeDir(path, home)
}

// CompressHomeDir replaces a home prefix with ~.
func CompressHomeDir(path, home string) string {
	home = strings.TrimSuffix(home, "/")
	if home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
