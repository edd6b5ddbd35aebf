package hook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

var (
	// ErrEmptyInput means stdin closed without a session snapshot.
	ErrEmptyInput = errors.New("empty stdin")
	// ErrTerminal means stdin is an interactive terminal, not a pipe from Claude Code.
	ErrTerminal = errors.New("stdin is a terminal; pipe the statusline JSON from Claude Code")
	// ErrTimeout means stdin did not reach EOF in time.
	ErrTimeout = errors.New("stdin read timeout")
)

// Input is the JSON object Claude Code sends to a statusLine command via stdin.
type Input struct {
	HookEventName  string        `json:"hook_event_name"`
	SessionID      string        `json:"session_id"`
	TranscriptPath string        `json:"transcript_path"`
	CWD            string        `json:"cwd"`
	Model          Model         `json:"model"`
	Workspace      Workspace     `json:"workspace"`
	Version        string        `json:"version"`
	OutputStyle    OutputStyle   `json:"output_style"`
	Cost           Cost          `json:"cost"`
	ContextWindow  ContextWindow `json:"context_window"`
	MCPServers     []MCPServer   `json:"mcp_servers,omitempty"`
}

type Model struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type Workspace struct {
	CurrentDir string `json:"current_dir"`
	ProjectDir string `json:"project_dir"`
}

type OutputStyle struct {
	Name string `json:"name"`
}

type Cost struct {
	TotalCostUSD       float64 `json:"total_cost_usd"`
	TotalDurationMS    int64   `json:"total_duration_ms"`
	TotalAPIDurationMS int64   `json:"total_api_duration_ms"`
	TotalLinesAdded    int     `json:"total_lines_added"`
	TotalLinesRemoved  int     `json:"total_lines_removed"`
}

// ContextWindow describes context usage. UsedPercentage is only sent by
// Claude Code 2.1.6 and later.
type ContextWindow struct {
	TotalInputTokens    int      `json:"total_input_tokens"`
	TotalOutputTokens   int      `json:"total_output_tokens"`
	ContextWindowSize   int      `json:"context_window_size"`
	UsedPercentage      *float64 `json:"used_percentage,omitempty"`
	RemainingPercentage *float64 `json:"remaining_percentage,omitempty"`
	CurrentUsage        *Usage   `json:"current_usage"`
}

type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

// MCPServer is one entry of mcp_servers.
type MCPServer struct {
	Name   string `json:"name"`
	Status string `json:"status"` // connected, active, disconnected, error
}

// ReadStdin reads the statusline snapshot from f, which must not be a terminal.
func ReadStdin(f *os.File, timeout time.Duration) (*Input, error) {
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return nil, ErrTerminal
	}
	return Read(f, timeout)
}

// Read reads all of r and decodes it. A non-positive timeout waits forever.
func Read(r io.Reader, timeout time.Duration) (*Input, error) {
	if timeout <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return Decode(data)
	}

	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(r)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	var data []byte
	select {
	case data = <-done:
	case err := <-errCh:
		return nil, fmt.Errorf("read stdin: %w", err)
	case <-time.After(timeout):
		return nil, ErrTimeout
	}

	return Decode(data)
}

// Decode parses a statusline snapshot.
func Decode(data []byte) (*Input, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil, ErrEmptyInput
	}

	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parse stdin JSON: %w", err)
	}
	return &input, nil
}

// ContextPercent returns context usage in whole percent. used_percentage is
// preferred; otherwise it is computed from current_usage.
func (in *Input) ContextPercent() int {
	cw := in.ContextWindow
	if cw.UsedPercentage != nil {
		return int(math.Round(*cw.UsedPercentage))
	}

	u := cw.CurrentUsage
	if u == nil || cw.ContextWindowSize <= 0 {
		return 0
	}
	current := u.InputTokens + u.OutputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
	return int(math.Round(float64(current) * 100 / float64(cw.ContextWindowSize)))
}

// ModelName returns the display name, falling back to the model id.
func (in *Input) ModelName() string {
	if in.Model.DisplayName != "" {
		return in.Model.DisplayName
	}
	if in.Model.ID != "" {
		return in.Model.ID
	}
	return "Unknown"
}

// ProjectDir returns the project root, falling back to the current dir.
func (in *Input) ProjectDir() string {
	if in.Workspace.ProjectDir != "" {
		return in.Workspace.ProjectDir
	}
	return in.CurrentDir()
}

// CurrentDir returns workspace.current_dir, falling back to cwd.
func (in *Input) CurrentDir() string {
	if in.Workspace.CurrentDir != "" {
		return in.Workspace.CurrentDir
	}
	return in.CWD
}

// ConnectedMCPServers counts servers reported as connected or active.
func (in *Input) ConnectedMCPServers() int {
	n := 0
	for _, s := range in.MCPServers {
		if s.Status == "connected" || s.Status == "active" {
			n++
		}
	}
	return n
}

// ModelEmoji picks an icon for a model family.
func ModelEmoji(name string) string {
	switch {
	case strings.Contains(name, "Opus"):
		return "🧠"
	case strings.Contains(name, "Sonnet"):
		return "🎵"
	case strings.Contains(name, "Haiku"):
		return "⚡"
	default:
		return "🤖"
	}
}
