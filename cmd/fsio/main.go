package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fsio/internal/config"
	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// app carries state shared by every subcommand.
type app struct {
	verbose    bool
	quiet      bool
	logFile    string
	configPath string

	cfg     config.Config
	logSink *os.File
}

func run() int {
	a := &app{}
	rootCmd := newRootCmd(a)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	a.close()

	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if fserr.KindOf(err) == fserr.ConfigurationError {
		return 2
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fsio",
		Short:         "Filesystem toolkit: lazy walks, chunked copies, encoded text I/O",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setupLogging(); err != nil {
				return err
			}
			return a.loadConfig()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "suppress all output except errors")
	pf.StringVar(&a.logFile, "log", "", "write structured JSON log to FILE")
	pf.StringVar(&a.configPath, "config", "", "config file (default: "+config.Path()+")")

	rootCmd.AddCommand(
		newWalkCmd(a),
		newLsCmd(a),
		newCatCmd(a),
		newWriteCmd(a),
		newCpCmd(a),
		newStatCmd(),
		newHashCmd(),
		newPathCmd(),
		newMkdirCmd(),
		newRmCmd(),
		newConfigCmd(a),
		newDocsCmd(),
	)
	return rootCmd
}

// setupLogging installs a text handler on stderr and, with --log, a JSON
// handler on the log file receiving everything down to debug.
func (a *app) setupLogging() error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	} else if !a.quiet {
		level = slog.LevelInfo
	}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	if a.logFile != "" {
		lf, err := os.Create(a.logFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logSink = lf
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		handler = ui.NewMultiHandler(handler, jsonHandler)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func (a *app) loadConfig() error {
	var err error
	if a.configPath != "" {
		// An explicit file must load cleanly.
		a.cfg, err = config.LoadFile(a.configPath)
		return err
	}
	a.cfg, err = config.Load()
	if err != nil {
		slog.Warn("failed to load config", "path", config.Path(), "error", err)
		a.cfg = config.Config{}
	}
	return nil
}

func (a *app) close() {
	if a.logSink != nil {
		_ = a.logSink.Close()
	}
}

// theme returns listing styles for stdout.
func (a *app) theme() ui.Theme {
	return ui.NewTheme(a.cfg.Theme, ui.UseColor(os.Stdout.Fd()))
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
