package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/heimdall/internal/check"
	"github.com/suykerbuyk/heimdall/internal/config"
	"github.com/suykerbuyk/heimdall/internal/help"
	"github.com/suykerbuyk/heimdall/internal/hook"
	"github.com/suykerbuyk/heimdall/internal/watch"
)

// errChecksFailed makes `heimdall check` exit non-zero after printing its
// report.
var errChecksFailed = errors.New("one or more checks failed")

const clearScreen = "\x1b[H\x1b[2J"

func newInstallCommand(a *app) *cobra.Command {
	var command string
	cmd := &cobra.Command{
		Use:   help.CmdInstall.Leaf(),
		Short: help.CmdInstall.Brief,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return hook.Install(hook.SettingsPath(a.cfg.HomeDir), command, a.stderr)
		},
	}
	cmd.Flags().StringVar(&command, "command", hook.DefaultCommand, "statusLine command to write")
	return cmd
}

func newUninstallCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   help.CmdUninstall.Leaf(),
		Short: help.CmdUninstall.Brief,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return hook.Uninstall(hook.SettingsPath(a.cfg.HomeDir), a.stderr)
		},
	}
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   help.CmdCheck.Leaf(),
		Short: help.CmdCheck.Brief,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			report := check.Run(a.cfg)
			fmt.Fprint(a.stdout, report.Format())
			if report.HasFailures() {
				return errChecksFailed
			}
			return nil
		},
	}
}

func newWatchCommand(a *app) *cobra.Command {
	var (
		input      string
		clearFirst bool
	)
	cmd := &cobra.Command{
		Use:   help.CmdWatch.Leaf(),
		Short: help.CmdWatch.Brief,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}
			in, err := hook.Decode(data)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch.Run(ctx, in.TranscriptPath, watch.DefaultDebounce, func() error {
				if clearFirst {
					fmt.Fprint(a.stdout, clearScreen)
				}
				return a.render(ctx, in, a.stdout)
			})
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "saved stdin snapshot to render from")
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "clear the screen before each render")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   help.CmdConfig.Leaf(),
		Short: help.CmdConfig.Brief,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   help.CmdConfigInit.Leaf(),
		Short: help.CmdConfigInit.Brief,
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, created, err := config.WriteDefault()
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(a.stderr, "heimdall: wrote %s\n", config.CompressHome(path))
			} else {
				fmt.Fprintf(a.stderr, "heimdall: %s already exists\n", config.CompressHome(path))
			}
			return nil
		},
	})
	return cmd
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   help.CmdVersion.Leaf(),
		Short: help.CmdVersion.Brief,
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "heimdall v%s\n", help.Version)
		},
	}
}

// newGenManCommand writes roff man pages for every command to a directory.
func newGenManCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:    "gen-man [dir]",
		Short:  "Generate man pages",
		Hidden: true,
		Args:   cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "man"
			if len(args) > 0 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			date := time.Now().Format("2006-01-02")
			write := func(name, content string) error {
				path := filepath.Join(dir, name)
				if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(a.stdout, "  %s\n", path)
				return nil
			}

			if err := write("heimdall.1", help.FormatRoffTopLevel(help.TopLevel, help.Subcommands, date)); err != nil {
				return err
			}
			for _, c := range append(append([]help.Command{}, help.Subcommands...), help.ConfigSubcommands...) {
				if err := write(c.ManName()+".1", help.FormatRoff(c, date)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
