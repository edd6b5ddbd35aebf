// Package status assembles everything the statusline shows into one
// immutable Context.
package status

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/suykerbuyk/heimdall/internal/claudecfg"
	"github.com/suykerbuyk/heimdall/internal/config"
	"github.com/suykerbuyk/heimdall/internal/git"
	"github.com/suykerbuyk/heimdall/internal/hook"
	"github.com/suykerbuyk/heimdall/internal/reset"
	"github.com/suykerbuyk/heimdall/internal/transcript"
)

// Context is the input to rendering. It is not modified after Assemble.
type Context struct {
	Input      *hook.Input
	Transcript transcript.Summary
	Git        git.Status
	Counts     claudecfg.Counts
	Reset      reset.Info
	Now        time.Time
	HomeDir    string
	Location   *time.Location
}

// SessionDuration is the time since the first timestamped transcript entry.
// ok is false when the transcript carried no timestamp.
func (c *Context) SessionDuration() (d time.Duration, ok bool) {
	if c.Transcript.SessionStart.IsZero() {
		return 0, false
	}
	d = c.Now.Sub(c.Transcript.SessionStart)
	if d < 0 {
		d = 0
	}
	return d, true
}

// FormatDuration renders a session length as "2h 5m" or "5m".
func FormatDuration(d time.Duration) string {
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// Assembler gathers a Context from a stdin snapshot.
type Assembler struct {
	cfg      config.Config
	runner   git.Runner
	now      func() time.Time
	location *time.Location
	log      *slog.Logger
}

// Option customizes an Assembler.
type Option func(*Assembler)

// WithGitRunner replaces the git binary runner.
func WithGitRunner(r git.Runner) Option {
	return func(a *Assembler) { a.runner = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithLogger replaces slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) { a.log = l }
}

// NewAssembler returns an Assembler for cfg.
func NewAssembler(cfg config.Config, opts ...Option) (*Assembler, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a := &Assembler{
		cfg:      cfg,
		runner:   git.NewExecRunner(cfg.GitTimeout()),
		now:      time.Now,
		location: loc,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Assemble runs the transcript reducer, the git query and the config count
// concurrently and combines them with the reset timer. Collaborator failures
// degrade to zero values; only a cancelled ctx is returned as an error.
func (a *Assembler) Assemble(ctx context.Context, in *hook.Input) (*Context, error) {
	now := a.now()
	out := &Context{
		Input:    in,
		Now:      now,
		HomeDir:  a.cfg.HomeDir,
		Location: a.location,
		Reset:    reset.Calculate(now, a.cfg.Anchors(), a.location),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sum, err := transcript.ParseFile(in.TranscriptPath, transcript.Options{
			MaxTools:     a.cfg.Transcript.MaxTools,
			MaxAgents:    a.cfg.Transcript.MaxAgents,
			MaxLineBytes: a.cfg.Transcript.MaxLineBytes,
			Now:          a.now,
			Logger:       a.log,
		})
		if err != nil {
			a.log.Debug("transcript unreadable", "path", in.TranscriptPath, "err", err)
		}
		out.Transcript = sum
		return nil
	})

	if a.cfg.Git.Enabled {
		g.Go(func() error {
			out.Git = git.Query(gctx, in.CurrentDir(), a.runner, a.log)
			return nil
		})
	}

	g.Go(func() error {
		out.Counts = claudecfg.Count(in.ProjectDir(), a.cfg.HomeDir, a.log)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("assemble status: %w", err)
	}
	return out, nil
}
