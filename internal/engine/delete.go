package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bamsammich/fsio/internal/event"
	"github.com/bamsammich/fsio/internal/filter"
	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/fsops"
	"github.com/bamsammich/fsio/internal/meta"
	"github.com/bamsammich/fsio/internal/pathutil"
	"github.com/bamsammich/fsio/internal/walker"
)

// DeleteConfig describes an extraneous-entry cleanup.
type DeleteConfig struct {
	SrcRoot string
	DstRoot string
	Filter  *filter.Chain
	DryRun  bool
	Events  chan<- event.Event
}

// DeleteExtraneous removes entries under DstRoot that have no counterpart
// under SrcRoot. Entries the filter excludes are left alone, since they were
// never meant to be copied. It returns the number of entries removed.
//
//nolint:revive // cognitive-complexity: sequential walk-filter-delete logic
func DeleteExtraneous(ctx context.Context, cfg DeleteConfig) (int, error) {
	var files, dirs []string
	dstRoot := strings.TrimSuffix(pathutil.Clean(cfg.DstRoot), "/")
	if !meta.Exists(dstRoot) {
		return 0, nil
	}

	trav := walker.DefaultTraversal()
	trav.Filter = cfg.Filter
	opts := walker.Options{TraversalOptions: trav, IncludeDirs: true, IncludeFiles: true}

	for e, err := range walker.Walk(ctx, dstRoot, opts) {
		if err != nil {
			return 0, fmt.Errorf("walk destination for delete: %w", err)
		}
		if e.Depth == 0 {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(e.Path, dstRoot), "/")
		if _, err := meta.Lstat(pathutil.Join(cfg.SrcRoot, rel)); err == nil {
			continue
		} else if !errors.Is(err, fserr.ErrNotFound) {
			return 0, err
		}
		if e.IsDir && !e.IsSymlink {
			dirs = append(dirs, rel)
		} else {
			files = append(files, rel)
		}
	}

	deleted := 0
	for _, rel := range files {
		if underAny(rel, dirs) {
			continue
		}
		event.Send(cfg.Events, event.Event{Type: event.DeleteFile, Path: rel})
		if !cfg.DryRun {
			if err := fsops.Remove(pathutil.Join(dstRoot, rel)); err != nil && !errors.Is(err, fserr.ErrNotFound) {
				return deleted, fmt.Errorf("delete %s: %w", rel, err)
			}
		}
		deleted++
	}

	// Deepest first.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))
	for _, rel := range dirs {
		if underAny(rel, dirs) {
			continue
		}
		event.Send(cfg.Events, event.Event{Type: event.DeleteFile, Path: rel})
		if !cfg.DryRun {
			if err := fsops.RemoveAll(pathutil.Join(dstRoot, rel)); err != nil && !errors.Is(err, fserr.ErrNotFound) {
				return deleted, fmt.Errorf("delete dir %s: %w", rel, err)
			}
		}
		deleted++
	}
	return deleted, nil
}

// underAny reports whether rel lies strictly inside one of dirs.
func underAny(rel string, dirs []string) bool {
	for _, d := range dirs {
		if len(rel) > len(d) && rel[:len(d)] == d && rel[len(d)] == '/' {
			return true
		}
	}
	return false
}
