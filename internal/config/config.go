package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all heimdall configuration.
type Config struct {
	Debug bool `toml:"debug"`

	// HomeDir is the user's home, used for ~ display and for the user-level
	// ~/.claude settings. Defaults to os.UserHomeDir.
	HomeDir string `toml:"home_dir"`

	Transcript TranscriptConfig `toml:"transcript"`
	Git        GitConfig        `toml:"git"`
	Reset      ResetConfig      `toml:"reset"`
	Display    DisplayConfig    `toml:"display"`
	Stdin      StdinConfig      `toml:"stdin"`
}

type TranscriptConfig struct {
	MaxTools     int `toml:"max_tools"`
	MaxAgents    int `toml:"max_agents"`
	MaxLineBytes int `toml:"max_line_bytes"`
}

type GitConfig struct {
	Enabled   bool `toml:"enabled"`
	TimeoutMS int  `toml:"timeout_ms"`
}

type ResetConfig struct {
	AnchorsUTC []int  `toml:"anchors_utc"`
	Timezone   string `toml:"timezone"`
}

type DisplayConfig struct {
	NBSP             bool `toml:"nbsp"`
	MaxWidth         int  `toml:"max_width"`
	ShowMCPLine      bool `toml:"show_mcp_line"`
	DescriptionWidth int  `toml:"description_width"`
}

type StdinConfig struct {
	TimeoutMS int `toml:"timeout_ms"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Transcript: TranscriptConfig{
			MaxTools:     20,
			MaxAgents:    10,
			MaxLineBytes: 10 * 1024 * 1024,
		},
		Git: GitConfig{
			Enabled:   true,
			TimeoutMS: 1000,
		},
		Reset: ResetConfig{
			AnchorsUTC: []int{0, 4, 9, 14, 19},
		},
		Display: DisplayConfig{
			NBSP:             true,
			ShowMCPLine:      true,
			DescriptionWidth: 40,
		},
		Stdin: StdinConfig{
			TimeoutMS: 2000,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	if cfg.HomeDir == "" {
		cfg.HomeDir, _ = os.UserHomeDir()
	}
	cfg.HomeDir = expandHome(cfg.HomeDir)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	if len(c.Reset.AnchorsUTC) == 0 {
		return errors.New("reset.anchors_utc: at least one anchor hour required")
	}
	for _, h := range c.Reset.AnchorsUTC {
		if h < 0 || h > 23 {
			return fmt.Errorf("reset.anchors_utc: hour %d out of range 0-23", h)
		}
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the zone reset times are displayed in.
func (c Config) Location() (*time.Location, error) {
	if c.Reset.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Reset.Timezone)
	if err != nil {
		return nil, fmt.Errorf("reset.timezone: %w", err)
	}
	return loc, nil
}

// Anchors returns the reset anchor hours sorted and de-duplicated.
func (c Config) Anchors() []int {
	hours := slices.Clone(c.Reset.AnchorsUTC)
	slices.Sort(hours)
	return slices.Compact(hours)
}

// GitTimeout bounds each git invocation. Zero means no timeout.
func (c Config) GitTimeout() time.Duration {
	return time.Duration(c.Git.TimeoutMS) * time.Millisecond
}

// StdinTimeout bounds how long the snapshot read may take. Zero means no
// timeout.
func (c Config) StdinTimeout() time.Duration {
	return time.Duration(c.Stdin.TimeoutMS) * time.Millisecond
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "heimdall", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "heimdall", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
