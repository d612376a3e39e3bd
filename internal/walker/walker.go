// Package walker enumerates directory trees lazily.
//
// Walks are range-over-func sequences: nothing is read until the caller
// iterates, each directory is listed in full and closed before any of its
// children are produced, and breaking out of the loop stops the walk with no
// descriptors left open. Order is pre-order depth-first, root first, with
// siblings sorted by name.
//
// A fault on any node is produced once as a (partial Entry, error) pair; that
// node is not entered and the walk moves on to its siblings. Callers that
// want to abort on the first fault simply break.
package walker

import (
	"context"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/pathutil"
)

// Entry is one visited node.
type Entry struct {
	Name      string
	Path      string
	IsDir     bool
	IsFile    bool
	IsSymlink bool
	Depth     int
}

type walk struct {
	ctx   context.Context
	opts  Options
	yield func(Entry, error) bool
	// active holds resolved paths of directories on the current descent
	// when following symlinks.
	active map[string]struct{}
}

// Walk yields every selected node under root, root included. With neither
// dirs nor files included it yields nothing and touches no filesystem.
func Walk(ctx context.Context, root string, opts Options) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if !opts.IncludeDirs && !opts.IncludeFiles {
			return
		}
		w := &walk{ctx: ctx, opts: opts, yield: yield}
		if opts.FollowSymlinks {
			w.active = make(map[string]struct{})
		}
		w.root(pathutil.ToSlashAll(root))
	}
}

// WalkPaths is Walk projected to paths.
func WalkPaths(ctx context.Context, root string, opts Options) iter.Seq2[string, error] {
	return paths(Walk(ctx, root, opts))
}

// WalkDirectories walks with files excluded.
func WalkDirectories(ctx context.Context, root string, opts TraversalOptions) iter.Seq2[Entry, error] {
	return Walk(ctx, root, Options{TraversalOptions: opts, IncludeDirs: true})
}

// WalkDirectoryPaths is WalkDirectories projected to paths.
func WalkDirectoryPaths(ctx context.Context, root string, opts TraversalOptions) iter.Seq2[string, error] {
	return paths(WalkDirectories(ctx, root, opts))
}

// WalkFiles walks with directories excluded.
func WalkFiles(ctx context.Context, root string, opts TraversalOptions) iter.Seq2[Entry, error] {
	return Walk(ctx, root, Options{TraversalOptions: opts, IncludeFiles: true})
}

// WalkFilePaths is WalkFiles projected to paths.
func WalkFilePaths(ctx context.Context, root string, opts TraversalOptions) iter.Seq2[string, error] {
	return paths(WalkFiles(ctx, root, opts))
}

func paths(seq iter.Seq2[Entry, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for e, err := range seq {
			if !yield(e.Path, err) {
				return
			}
		}
	}
}

func (w *walk) root(root string) {
	if err := w.ctx.Err(); err != nil {
		w.yield(Entry{Path: root}, err)
		return
	}

	fi, err := os.Stat(root)
	if err != nil {
		w.yield(Entry{Path: root}, fserr.Classify("walk", root, err))
		return
	}
	e := Entry{
		Name:   pathutil.Basename(root),
		Path:   root,
		IsDir:  fi.IsDir(),
		IsFile: fi.Mode().IsRegular(),
	}
	if e.Name == "" {
		e.Name = root
	}

	if !e.IsDir {
		if w.opts.IncludeFiles && !w.opts.skipped(root) && w.opts.selects(root, false) {
			w.yield(e, nil)
		}
		return
	}

	if w.opts.skipped(root) {
		return
	}
	if w.opts.IncludeDirs && w.opts.selects(root, true) {
		if !w.yield(e, nil) {
			return
		}
	}
	if !w.opts.withinDepth(1) {
		return
	}
	if w.active != nil {
		resolved, err := filepath.EvalSymlinks(root)
		if err != nil {
			w.yield(e, fserr.Classify("walk", root, err))
			return
		}
		w.active[resolved] = struct{}{}
	}
	w.dir(root, "", 1)
}

// dir produces the children of path at the given depth. rel is path relative
// to the root ("" for the root itself). It returns false once the consumer
// has stopped.
func (w *walk) dir(path, rel string, depth int) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		slog.Debug("walk: cannot list directory", "path", path, "error", err)
		return w.yield(Entry{Name: pathutil.Basename(path), Path: path, IsDir: true, Depth: depth - 1},
			fserr.Classify("readdir", path, err))
	}

	for _, de := range entries {
		if err := w.ctx.Err(); err != nil {
			w.yield(Entry{Path: path}, err)
			return false
		}
		if !w.child(path, rel, de, depth) {
			return false
		}
	}
	return true
}

func (w *walk) child(parent, parentRel string, de os.DirEntry, depth int) bool {
	name := de.Name()
	e := Entry{
		Name:      name,
		Path:      pathutil.Join(parent, name),
		IsDir:     de.IsDir(),
		IsFile:    de.Type().IsRegular(),
		IsSymlink: de.Type()&os.ModeSymlink != 0,
		Depth:     depth,
	}
	rel := name
	if parentRel != "" {
		rel = parentRel + "/" + name
	}

	if w.opts.skipped(e.Path) {
		return true
	}

	if e.IsSymlink {
		if !w.opts.FollowSymlinks {
			if !w.opts.IncludeSymlinks || !w.opts.IncludeFiles {
				return true
			}
			return w.emit(e, rel, 0)
		}
		fi, err := os.Stat(e.Path)
		if err != nil {
			return w.yield(e, fserr.Classify("walk", e.Path, err))
		}
		e.IsDir = fi.IsDir()
		e.IsFile = fi.Mode().IsRegular()
	}

	if !e.IsDir {
		if !w.opts.IncludeFiles {
			return true
		}
		var size int64
		if !w.opts.Filter.Empty() {
			fi, err := os.Stat(e.Path)
			if err != nil {
				return w.yield(e, fserr.Classify("walk", e.Path, err))
			}
			size = fi.Size()
		}
		return w.emit(e, rel, size)
	}

	if w.opts.Filter.Prune(rel) {
		return true
	}
	if w.opts.IncludeDirs && w.opts.selects(e.Path, true) {
		if !w.yield(e, nil) {
			return false
		}
	}
	if !w.opts.withinDepth(depth + 1) {
		return true
	}
	return w.descend(e, rel, depth)
}

func (w *walk) descend(e Entry, rel string, depth int) bool {
	if w.active == nil {
		return w.dir(e.Path, rel, depth+1)
	}
	resolved, err := filepath.EvalSymlinks(e.Path)
	if err != nil {
		return w.yield(e, fserr.Classify("walk", e.Path, err))
	}
	if _, seen := w.active[resolved]; seen {
		slog.Debug("walk: symlink cycle", "path", e.Path, "target", resolved)
		return true
	}
	w.active[resolved] = struct{}{}
	defer delete(w.active, resolved)
	return w.dir(e.Path, rel, depth+1)
}

// emit yields a non-directory entry that passes every selector.
func (w *walk) emit(e Entry, rel string, size int64) bool {
	if !w.opts.selects(e.Path, false) {
		return true
	}
	if !w.opts.Filter.Match(rel, false, size) {
		return true
	}
	return w.yield(e, nil)
}
