// Package engine copies whole directory trees by combining the lazy walker
// with the chunked copier, fanning file copies out to a bounded worker group.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bamsammich/fsio/internal/copier"
	"github.com/bamsammich/fsio/internal/event"
	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/fsops"
	"github.com/bamsammich/fsio/internal/meta"
	"github.com/bamsammich/fsio/internal/pathutil"
	"github.com/bamsammich/fsio/internal/stats"
	"github.com/bamsammich/fsio/internal/walker"
)

// Config describes a tree copy.
type Config struct {
	Src string
	Dst string
	// Traversal is usually built from walker.DefaultTraversal; its zero
	// value limits the walk to the root.
	Traversal walker.TraversalOptions
	Copy      copier.Options
	// Workers bounds concurrent file copies; 0 picks min(NumCPU, 8).
	Workers int
	// Delete removes destination entries with no source counterpart after
	// the copy.
	Delete bool
	DryRun bool
	// Journal, when set, skips files a previous run already copied and
	// records the ones this run copies.
	Journal *Journal
	Events chan<- event.Event
	// Stats receives the counters; a fresh collector is used when nil.
	Stats *stats.Collector
}

// Result is the outcome of a tree copy.
type Result struct {
	Stats stats.Snapshot
	Err   error
}

// CopyTree copies Src to Dst, blocking until every file is done. A fault on
// one entry does not stop the others; the first fault, annotated with the
// count of the rest, is returned in Result.Err.
func CopyTree(ctx context.Context, cfg Config) Result {
	if err := cfg.Copy.Validate(); err != nil {
		return Result{Err: err}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = min(runtime.NumCPU(), 8)
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	src := strings.TrimSuffix(pathutil.Clean(cfg.Src), "/")
	dst := strings.TrimSuffix(pathutil.Clean(cfg.Dst), "/")
	if src == "" {
		src = "/"
	}

	info, err := meta.Stat(src)
	if err != nil {
		return Result{Err: fmt.Errorf("source: %w", err)}
	}

	run := &treeCopy{cfg: cfg, src: src, dst: dst, copier: copier.New(copier.WithOptions(cfg.Copy))}
	if !info.IsDir {
		run.copyFile(ctx, singleTarget(src, dst))
		return run.result()
	}

	if !cfg.DryRun {
		if err := fsops.MkdirAll(dst); err != nil {
			return Result{Err: fmt.Errorf("create destination: %w", err)}
		}
	}
	run.copyDir(ctx)

	if cfg.Delete && ctx.Err() == nil {
		n, err := DeleteExtraneous(ctx, DeleteConfig{
			SrcRoot: src,
			DstRoot: dst,
			Filter:  cfg.Traversal.Filter,
			DryRun:  cfg.DryRun,
			Events:  cfg.Events,
		})
		cfg.Stats.AddDeleted(int64(n))
		if err != nil {
			run.fail(err)
		}
	}
	return run.result()
}

// singleTarget resolves the destination of a single-file copy: into dst when
// dst is an existing directory, otherwise dst itself.
func singleTarget(src, dst string) target {
	if meta.IsDir(dst) {
		return target{rel: pathutil.Basename(src), src: src, dst: pathutil.Join(dst, pathutil.Basename(src))}
	}
	return target{rel: pathutil.Basename(src), src: src, dst: dst}
}

type target struct {
	rel, src, dst string
}

type treeCopy struct {
	cfg    Config
	src    string
	dst    string
	copier *copier.Copier

	mu       sync.Mutex
	firstErr error
	errCount int
}

func (t *treeCopy) copyDir(ctx context.Context) {
	emit := func(e event.Event) { event.Send(t.cfg.Events, e) }
	emit(event.Event{Type: event.WalkStarted, Path: t.src})

	var g errgroup.Group
	g.SetLimit(t.cfg.Workers)

	opts := walker.Options{TraversalOptions: t.cfg.Traversal, IncludeDirs: true, IncludeFiles: true}
	for e, err := range walker.Walk(ctx, t.src, opts) {
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				t.fail(err)
				break
			}
			t.cfg.Stats.AddWalkFaults(1)
			emit(event.Event{Type: event.WalkFault, Path: t.rel(e.Path), Error: err})
			slog.Debug("tree copy: walk fault", "path", e.Path, "error", err)
			t.fail(err)
			continue
		}
		if e.Depth == 0 {
			continue
		}
		t.cfg.Stats.AddEntriesWalked(1)

		tg := target{rel: t.rel(e.Path), src: e.Path}
		tg.dst = pathutil.Join(t.dst, tg.rel)

		switch {
		case e.IsDir:
			// Created before any child is yielded, so workers never race it.
			t.makeDir(tg)
		case e.IsSymlink:
			t.makeSymlink(tg)
		case !e.IsFile:
			t.cfg.Stats.AddFilesSkipped(1)
			emit(event.Event{Type: event.FileSkipped, Path: tg.rel})
		default:
			g.Go(func() error {
				t.copyFile(ctx, tg)
				return nil
			})
		}
	}
	_ = g.Wait()

	emit(event.Event{Type: event.WalkComplete, Total: t.cfg.Stats.Snapshot().EntriesWalked})
}

func (t *treeCopy) rel(path string) string {
	rel := strings.TrimPrefix(path, t.src)
	return strings.TrimPrefix(rel, "/")
}

func (t *treeCopy) makeDir(tg target) {
	if !t.cfg.DryRun {
		if err := fsops.MkdirAll(tg.dst); err != nil {
			t.fail(err)
			return
		}
	}
	t.cfg.Stats.AddDirsCreated(1)
	event.Send(t.cfg.Events, event.Event{Type: event.DirCreated, Path: tg.rel})
}

// makeSymlink recreates an unfollowed link with the same target text.
func (t *treeCopy) makeSymlink(tg target) {
	link, err := os.Readlink(tg.src)
	if err != nil {
		t.fail(fserr.Classify("readlink", tg.src, err))
		return
	}
	if !t.cfg.DryRun {
		if t.cfg.Copy.Overwrite {
			_ = os.Remove(tg.dst)
		}
		if err := os.Symlink(link, tg.dst); err != nil {
			t.fail(fserr.Classify("symlink", tg.dst, err))
			return
		}
	}
	t.cfg.Stats.AddSymlinksCreated(1)
	event.Send(t.cfg.Events, event.Event{Type: event.SymlinkCreated, Path: tg.rel})
}

func (t *treeCopy) copyFile(ctx context.Context, tg target) {
	emit := func(e event.Event) { event.Send(t.cfg.Events, e) }

	if t.cfg.DryRun {
		t.cfg.Stats.AddFilesSkipped(1)
		emit(event.Event{Type: event.FileSkipped, Path: tg.rel})
		return
	}

	var src meta.Info
	if t.cfg.Journal != nil {
		info, err := meta.Stat(tg.src)
		if err == nil && meta.Exists(tg.dst) && t.cfg.Journal.Done(tg.rel, info.Size, info.ModTime.UnixNano()) {
			t.cfg.Stats.AddFilesSkipped(1)
			emit(event.Event{Type: event.FileSkipped, Path: tg.rel})
			return
		}
		src = info
	}

	emit(event.Event{Type: event.FileStarted, Path: tg.rel})
	var last int64
	n, err := t.copier.Copy(ctx, tg.src, tg.dst, copier.WithProgress(func(written int64) {
		t.cfg.Stats.AddBytesCopied(written - last)
		last = written
		emit(event.Event{Type: event.FileProgress, Path: tg.rel, Size: written})
	}))
	if err != nil {
		if !t.cfg.Copy.Overwrite && errors.Is(err, fserr.ErrAlreadyExists) {
			t.cfg.Stats.AddFilesSkipped(1)
			emit(event.Event{Type: event.FileSkipped, Path: tg.rel})
			return
		}
		t.cfg.Stats.AddFilesFailed(1)
		emit(event.Event{Type: event.FileFailed, Path: tg.rel, Error: err})
		t.fail(err)
		return
	}

	if t.cfg.Journal != nil && src.Path != "" {
		if err := t.cfg.Journal.Record(tg.rel, src.Size, src.ModTime.UnixNano()); err != nil {
			slog.Warn("tree copy: journal write failed", "path", tg.rel, "error", err)
		}
	}
	t.cfg.Stats.AddFilesCopied(1)
	if t.cfg.Copy.Verify {
		t.cfg.Stats.AddFilesVerified(1)
	}
	emit(event.Event{Type: event.FileCompleted, Path: tg.rel, Size: n})
}

func (t *treeCopy) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errCount++
	if t.firstErr == nil {
		t.firstErr = err
	}
}

func (t *treeCopy) result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	err := t.firstErr
	if t.errCount > 1 {
		err = fmt.Errorf("%w (and %d more errors)", err, t.errCount-1)
	}
	return Result{Stats: t.cfg.Stats.Snapshot(), Err: err}
}
