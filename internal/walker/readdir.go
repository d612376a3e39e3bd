package walker

import (
	"context"
	"iter"
	"os"

	"github.com/bamsammich/fsio/internal/fserr"
	"github.com/bamsammich/fsio/internal/pathutil"
)

// ReadDir yields the immediate children of dir, sorted by name. Symlinks are
// reported, not followed.
func ReadDir(ctx context.Context, dir string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		p := pathutil.ToSlashAll(dir)
		entries, err := os.ReadDir(p)
		if err != nil {
			yield(Entry{Path: p}, fserr.Classify("readdir", p, err))
			return
		}
		for _, de := range entries {
			if err := ctx.Err(); err != nil {
				yield(Entry{Path: p}, err)
				return
			}
			e := Entry{
				Name:      de.Name(),
				Path:      pathutil.Join(p, de.Name()),
				IsDir:     de.IsDir(),
				IsFile:    de.Type().IsRegular(),
				IsSymlink: de.Type()&os.ModeSymlink != 0,
				Depth:     1,
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// ReadDirPaths is ReadDir projected to paths.
func ReadDirPaths(ctx context.Context, dir string) iter.Seq2[string, error] {
	return paths(ReadDir(ctx, dir))
}

// Collect drains seq, stopping at the first fault. Values produced before the
// fault are returned with it.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
