package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/heimdall/internal/config"
	"github.com/suykerbuyk/heimdall/internal/help"
	"github.com/suykerbuyk/heimdall/internal/hook"
	"github.com/suykerbuyk/heimdall/internal/render"
	"github.com/suykerbuyk/heimdall/internal/status"
)

// app carries the process streams and the loaded config to every command.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfg config.Config
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "heimdall",
		Short:         help.TopLevel.Synopsis,
		Version:       help.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.renderStdin(cmd.Context())
		},
	}
	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	debug := cmd.PersistentFlags().Bool("debug", false, "Log diagnostics to stderr")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// The statusline itself must not fail on a broken config file.
		strict := cmd != cmd.Root()
		return a.setup(*debug, strict)
	}

	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		fmt.Fprint(c.OutOrStdout(), helpText(c))
	})

	cmd.AddCommand(
		newInstallCommand(a),
		newUninstallCommand(a),
		newCheckCommand(a),
		newWatchCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
		newGenManCommand(a),
	)
	return cmd
}

// setup loads the config and installs the stderr logger. With strict unset a
// config error is logged and defaults are used.
func (a *app) setup(debug, strict bool) error {
	cfg, err := config.Load()
	if err != nil {
		if strict {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.DefaultConfig()
		cfg.HomeDir, _ = os.UserHomeDir()
	}

	level := slog.LevelWarn
	if debug || cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})))
	if err != nil {
		slog.Warn("using default config", "err", err)
	}

	a.cfg = cfg
	return nil
}

// renderStdin is the statusLine entry point: stdin snapshot in, rows out.
// Reading stdin is the only fatal step; nothing is written to stdout when it
// fails.
func (a *app) renderStdin(ctx context.Context) error {
	var (
		in  *hook.Input
		err error
	)
	if f, ok := a.stdin.(*os.File); ok {
		in, err = hook.ReadStdin(f, a.cfg.StdinTimeout())
	} else {
		in, err = hook.Read(a.stdin, a.cfg.StdinTimeout())
	}
	if err != nil {
		return err
	}
	return a.render(ctx, in, a.stdout)
}

func (a *app) render(ctx context.Context, in *hook.Input, w io.Writer) error {
	asm, err := status.NewAssembler(a.cfg)
	if err != nil {
		return err
	}
	sc, err := asm.Assemble(ctx, in)
	if err != nil {
		return err
	}
	return render.New(render.OptionsFromConfig(a.cfg.Display, colorProfile())).Render(w, sc)
}

// colorProfile is ANSI unless NO_COLOR or CLICOLOR=0 is set. Claude Code
// pipes stdout, so terminal detection would always pick no color.
func colorProfile() termenv.Profile {
	if termenv.EnvNoColor() {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// helpText finds the registry entry for c by its path below the root.
func helpText(c *cobra.Command) string {
	if c == c.Root() {
		return help.FormatUsage(help.TopLevel, help.Subcommands) + "\n" + help.FormatTerminal(help.TopLevel)
	}
	name := c.CommandPath()[len(c.Root().Name())+1:]
	for _, list := range [][]help.Command{help.Subcommands, help.ConfigSubcommands} {
		for _, h := range list {
			if h.Name == name {
				return help.FormatTerminal(h)
			}
		}
	}
	return c.UsageString()
}
