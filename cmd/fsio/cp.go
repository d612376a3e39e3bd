package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fsio/internal/copier"
	"github.com/bamsammich/fsio/internal/engine"
	"github.com/bamsammich/fsio/internal/event"
	"github.com/bamsammich/fsio/internal/filter"
	"github.com/bamsammich/fsio/internal/meta"
	"github.com/bamsammich/fsio/internal/pathutil"
	"github.com/bamsammich/fsio/internal/stats"
	"github.com/bamsammich/fsio/internal/ui"
)

type cpFlags struct {
	recursive   bool
	noOverwrite bool
	noTimes     bool
	bufferSize  int
	bwLimit     string
	verify      bool
	workers     int
	dryRun      bool
	deleteExtra bool
	resume      bool
	traversal   traversalFlags
}

func newCpCmd(a *app) *cobra.Command {
	var cf cpFlags

	cmd := &cobra.Command{
		Use:   "cp [flags] SRC DST",
		Short: "Copy a file, or a directory tree with -r, in fixed-size chunks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCopy(cmd, &cf, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&cf.recursive, "recursive", "r", false, "copy directories recursively")
	f.BoolVar(&cf.noOverwrite, "no-overwrite", false, "fail (or skip, with -r) when the destination exists")
	f.BoolVar(&cf.noTimes, "no-times", false, "don't carry access and modification times")
	f.IntVar(&cf.bufferSize, "buffer-size", 32*1024, "chunk size in bytes")
	f.StringVar(&cf.bwLimit, "bwlimit", "", "bandwidth limit per file (e.g. 100M, 1G)")
	f.BoolVar(&cf.verify, "verify", false, "verify checksums after copy (BLAKE3)")
	f.IntVarP(&cf.workers, "workers", "n", 0, "concurrent file copies with -r (default: min(NumCPU, 8))")
	f.BoolVar(&cf.dryRun, "dry-run", false, "show what would be copied without writing")
	f.BoolVar(&cf.deleteExtra, "delete", false, "delete destination entries missing from the source (-r)")
	f.BoolVar(&cf.resume, "resume", false, "skip files an interrupted run already copied (-r)")
	addTraversalFlags(cmd, &cf.traversal)
	return cmd
}

// copyOptions merges flags over config defaults.
func (a *app) copyOptions(cmd *cobra.Command, cf *cpFlags) (copier.Options, error) {
	changed := cmd.Flags().Changed
	d := a.cfg.Copy

	opts := copier.Options{
		Overwrite:     !cf.noOverwrite,
		CopyTimestamp: !cf.noTimes,
		BufferSize:    cf.bufferSize,
		Verify:        cf.verify,
	}
	if !changed("no-overwrite") && d.Overwrite != nil {
		opts.Overwrite = *d.Overwrite
	}
	if !changed("no-times") && d.Timestamps != nil {
		opts.CopyTimestamp = *d.Timestamps
	}
	if !changed("buffer-size") && d.BufferSize != nil {
		opts.BufferSize = *d.BufferSize
	}
	if !changed("verify") && d.Verify != nil {
		opts.Verify = *d.Verify
	}
	if !changed("workers") && d.Workers != nil {
		cf.workers = *d.Workers
	}

	bw := cf.bwLimit
	if !changed("bwlimit") && d.BWLimit != nil {
		bw = *d.BWLimit
	}
	if bw != "" {
		n, err := filter.ParseSize(bw)
		if err != nil {
			return opts, fmt.Errorf("invalid --bwlimit: %w", err)
		}
		opts.BytesPerSec = n
	}
	return opts, opts.Validate()
}

func (a *app) runCopy(cmd *cobra.Command, cf *cpFlags, src, dst string) error {
	opts, err := a.copyOptions(cmd, cf)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	info, err := meta.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir && !cf.recursive {
		return fmt.Errorf("%s is a directory (not copied; use -r)", src)
	}
	if !info.IsDir {
		return copySingle(ctx, cmd.OutOrStdout(), src, dst, opts, cf.dryRun)
	}

	trav, err := cf.traversal.options(cmd, a)
	if err != nil {
		return err
	}
	return a.copyTree(ctx, cmd, cf, engine.Config{
		Src:       src,
		Dst:       dst,
		Traversal: trav,
		Copy:      opts,
		Workers:   cf.workers,
		Delete:    cf.deleteExtra,
		DryRun:    cf.dryRun,
	})
}

func copySingle(ctx context.Context, w io.Writer, src, dst string, opts copier.Options, dryRun bool) error {
	if meta.IsDir(dst) {
		dst = pathutil.Join(dst, pathutil.Basename(src))
	}
	if dryRun {
		fmt.Fprintf(w, "%s -> %s\n", src, dst)
		return nil
	}
	n, err := copier.Copy(ctx, src, dst, copier.WithOptions(opts))
	if err != nil {
		return err
	}
	slog.Info("copied", "src", src, "dst", dst, "bytes", n)
	return nil
}

func (a *app) copyTree(ctx context.Context, cmd *cobra.Command, cf *cpFlags, cfg engine.Config) error {
	if cf.resume && !cf.dryRun {
		j, err := engine.OpenJournal(engine.JournalDir(), cfg.Src, cfg.Dst)
		if err != nil {
			return err
		}
		cfg.Journal = j
		slog.Debug("resume journal", "path", j.Path())
	}

	collector := stats.NewCollector()
	events := make(chan event.Event, 256)
	cfg.Events = events
	cfg.Stats = collector

	presenterEvents := (<-chan event.Event)(events)
	if a.logFile != "" {
		presenterEvents = teeToLog(events)
	}

	presenter := ui.NewPresenter(ui.Config{
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Stats:     collector,
		IsTTY:     ui.IsTTY(os.Stderr.Fd()),
		Quiet:     a.quiet,
		Verbose:   a.verbose || cf.dryRun,
		Width:     ui.TermWidth(os.Stderr.Fd()),
	})

	var presenterErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		presenterErr = presenter.Run(presenterEvents)
	}()

	result := engine.CopyTree(ctx, cfg)
	close(events)
	wg.Wait()
	a.finishJournal(cfg.Journal, result.Err == nil)
	if presenterErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "presenter: %v\n", presenterErr)
	}

	if !a.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), summary)
		}
	}

	if result.Err != nil {
		slog.Error("copy failed", "error", result.Err)
		if result.Stats.FilesCopied > 0 {
			return &exitError{code: 1} // partial failure
		}
		return &exitError{code: 2}
	}
	return nil
}

// finishJournal closes j and, after a clean run, removes it since nothing is
// left to resume.
func (a *app) finishJournal(j *engine.Journal, clean bool) {
	if j == nil {
		return
	}
	if err := j.Close(); err != nil {
		slog.Warn("close journal", "path", j.Path(), "error", err)
		return
	}
	if !clean {
		slog.Info("journal kept for --resume", "path", j.Path())
		return
	}
	if err := j.Remove(); err != nil {
		slog.Warn("remove journal", "path", j.Path(), "error", err)
	}
}

// teeToLog writes a structured record per event before forwarding it.
func teeToLog(in <-chan event.Event) <-chan event.Event {
	out := make(chan event.Event, cap(in))
	go func() {
		defer close(out)
		for ev := range in {
			attrs := []slog.Attr{
				slog.String("type", ev.Type.String()),
				slog.String("path", ev.Path),
				slog.Int64("size", ev.Size),
			}
			if ev.Error != nil {
				attrs = append(attrs, slog.String("error", ev.Error.Error()))
			}
			slog.LogAttrs(context.Background(), slog.LevelDebug, "fsio.event", attrs...)
			out <- ev
		}
	}()
	return out
}
