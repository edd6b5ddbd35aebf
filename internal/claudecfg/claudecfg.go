// Package claudecfg counts the Claude Code configuration that applies to a
// project: CLAUDE.md, rule files, MCP servers and hook events.
package claudecfg

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Counts summarizes the configuration visible from a project.
type Counts struct {
	ClaudeMD   int
	Rules      int
	MCPServers int
	Hooks      int
}

type settingsFile struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
	Hooks      map[string]json.RawMessage `json:"hooks"`
}

// Count inspects projectDir and, when it is a different directory, the
// user-level settings under homeDir. Unreadable files count as absent and
// are reported to log at debug level; a nil log uses slog.Default.
func Count(projectDir, homeDir string, log *slog.Logger) Counts {
	if log == nil {
		log = slog.Default()
	}
	var c Counts
	if projectDir == "" {
		return c
	}

	if fileExists(filepath.Join(projectDir, "CLAUDE.md")) {
		c.ClaudeMD++
	}

	claudeDir := filepath.Join(projectDir, ".claude")
	c.Rules = countRules(filepath.Join(claudeDir, "rules"))
	c.add(readSettings(log, filepath.Join(claudeDir, "settings.json")))

	if homeDir != "" {
		homeClaude := filepath.Join(homeDir, ".claude")
		if filepath.Clean(homeClaude) != filepath.Clean(claudeDir) {
			c.add(readSettings(log, filepath.Join(homeClaude, "settings.json")))
		}
	}
	return c
}

func (c *Counts) add(s settingsFile) {
	c.MCPServers += len(s.MCPServers)
	c.Hooks += len(s.Hooks)
}

func countRules(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".md") {
			n++
		}
	}
	return n
}

func readSettings(log *slog.Logger, path string) settingsFile {
	var s settingsFile
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		log.Debug("unreadable settings", "path", path, "err", err)
		return settingsFile{}
	}
	return s
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
