// Package git queries working-tree status for the statusline.
package git

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Status is a snapshot of a working tree. The zero value means "not a repo".
type Status struct {
	IsRepo      bool
	Branch      string
	Staged      int
	Modified    int
	Ahead       int
	Behind      int
	HasUpstream bool
	Submodules  int
}

// Runner runs one git command in dir and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the git binary. Each call is bounded by Timeout when it is
// positive.
type ExecRunner struct {
	Binary  string
	Timeout time.Duration
}

// NewExecRunner returns a Runner for the git on PATH.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{Binary: "git", Timeout: timeout}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	bin := r.Binary
	if bin == "" {
		bin = "git"
	}
	// Status queries must not take index.lock away from a concurrent git.
	cmd := exec.CommandContext(ctx, bin, append([]string{"--no-optional-locks"}, args...)...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// Query collects the status of the repository containing dir.
// Failures of individual commands leave their fields zero; a directory
// outside any repository yields the zero Status. A nil log uses
// slog.Default.
func Query(ctx context.Context, dir string, r Runner, log *slog.Logger) Status {
	if log == nil {
		log = slog.Default()
	}
	var s Status
	if dir == "" {
		return s
	}
	if _, err := r.Run(ctx, dir, "rev-parse", "--git-dir"); err != nil {
		log.Debug("not a git repository", "dir", dir, "err", err)
		return s
	}
	s.IsRepo = true

	s.Branch = runSafe(ctx, r, log, dir, "rev-parse", "--abbrev-ref", "HEAD")
	s.Staged = countLines(runSafe(ctx, r, log, dir, "diff", "--cached", "--name-only"))
	s.Modified = countLines(runSafe(ctx, r, log, dir, "diff", "--name-only"))

	if upstream := runSafe(ctx, r, log, dir, "rev-parse", "--abbrev-ref", "@{upstream}"); upstream != "" {
		s.HasUpstream = true
		s.Ahead, s.Behind = parseAheadBehind(runSafe(ctx, r, log, dir, "rev-list", "--left-right", "--count", "HEAD...@{upstream}"))
	}

	s.Submodules = countLines(runSafe(ctx, r, log, dir, "submodule", "status"))
	return s
}

func runSafe(ctx context.Context, r Runner, log *slog.Logger, dir string, args ...string) string {
	out, err := r.Run(ctx, dir, args...)
	if err != nil {
		log.Debug("git command failed", "args", args, "err", err)
		return ""
	}
	return out
}

// parseAheadBehind reads "<ahead>\t<behind>" as printed by
// rev-list --left-right --count.
func parseAheadBehind(out string) (ahead, behind int) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0
	}
	ahead, _ = strconv.Atoi(fields[0])
	behind, _ = strconv.Atoi(fields[1])
	return ahead, behind
}

func countLines(out string) int {
	n := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
