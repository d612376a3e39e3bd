package main

import (
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fsio/internal/meta"
	"github.com/bamsammich/fsio/internal/ui"
	"github.com/bamsammich/fsio/internal/walker"
)

// traversalFlags are the options shared by walk and cp -r.
type traversalFlags struct {
	maxDepth int
	follow   bool
	noLinks  bool
	exts     []string
	filters  filterOpts
}

func addTraversalFlags(cmd *cobra.Command, tf *traversalFlags) {
	f := cmd.Flags()
	f.IntVar(&tf.maxDepth, "max-depth", -1, "descend at most N levels below the root (-1 = unlimited)")
	f.BoolVarP(&tf.follow, "follow", "L", false, "follow symbolic links")
	f.BoolVar(&tf.noLinks, "no-symlinks", false, "omit unfollowed symbolic links")
	f.StringSliceVar(&tf.exts, "ext", nil, "keep only files with these extensions (e.g. .go,.md)")
	addFilterFlags(cmd, &tf.filters)
}

// options merges flags over config defaults.
func (tf *traversalFlags) options(cmd *cobra.Command, a *app) (walker.TraversalOptions, error) {
	opts := walker.DefaultTraversal()
	opts.MaxDepth = tf.maxDepth
	opts.FollowSymlinks = tf.follow
	if !cmd.Flags().Changed("max-depth") && a.cfg.Walk.MaxDepth != nil {
		opts.MaxDepth = *a.cfg.Walk.MaxDepth
	}
	if !cmd.Flags().Changed("follow") && a.cfg.Walk.FollowSymlinks != nil {
		opts.FollowSymlinks = *a.cfg.Walk.FollowSymlinks
	}
	opts.IncludeSymlinks = !tf.noLinks
	opts.Exts = tf.exts

	var err error
	if opts.Skip, err = compileAll("skip", tf.filters.skip); err != nil {
		return opts, err
	}
	if opts.Match, err = compileAll("match", tf.filters.match); err != nil {
		return opts, err
	}
	if opts.Filter, err = tf.filters.build(); err != nil {
		return opts, err
	}
	return opts, nil
}

func newWalkCmd(a *app) *cobra.Command {
	var (
		tf        traversalFlags
		dirsOnly  bool
		filesOnly bool
		long      bool
		pathsOnly bool
	)

	cmd := &cobra.Command{
		Use:   "walk [flags] [ROOT]",
		Short: "List a directory tree lazily, depth first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			trav, err := tf.options(cmd, a)
			if err != nil {
				return err
			}
			if pathsOnly {
				return walkPaths(cmd, root, trav, dirsOnly, filesOnly)
			}
			opts := walker.Options{TraversalOptions: trav, IncludeDirs: !filesOnly, IncludeFiles: !dirsOnly}

			th := a.theme()
			faults := 0
			for e, err := range walker.Walk(cmd.Context(), root, opts) {
				if err != nil {
					if cmd.Context().Err() != nil {
						return err
					}
					faults++
					fmt.Fprintln(cmd.ErrOrStderr(), th.Error(err.Error()))
					continue
				}
				printEntry(cmd.OutOrStdout(), th, e, long)
			}
			if faults > 0 {
				slog.Warn("walk finished with faults", "root", root, "faults", faults)
				return &exitError{code: 1}
			}
			return nil
		},
	}
	addTraversalFlags(cmd, &tf)
	cmd.Flags().BoolVarP(&dirsOnly, "dirs", "d", false, "list directories only")
	cmd.Flags().BoolVarP(&filesOnly, "files", "f", false, "list files only")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show mode and size")
	cmd.Flags().BoolVar(&pathsOnly, "paths", false, "print bare paths, one per line, for piping")
	cmd.MarkFlagsMutuallyExclusive("dirs", "files")
	cmd.MarkFlagsMutuallyExclusive("paths", "long")
	return cmd
}

// walkPaths prints unstyled paths and stops at the first fault.
func walkPaths(cmd *cobra.Command, root string, trav walker.TraversalOptions, dirsOnly, filesOnly bool) error {
	var seq iter.Seq2[string, error]
	switch {
	case dirsOnly:
		seq = walker.WalkDirectoryPaths(cmd.Context(), root, trav)
	case filesOnly:
		seq = walker.WalkFilePaths(cmd.Context(), root, trav)
	default:
		seq = walker.WalkPaths(cmd.Context(), root, walker.Options{
			TraversalOptions: trav, IncludeDirs: true, IncludeFiles: true,
		})
	}
	for p, err := range seq {
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

func newLsCmd(a *app) *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "ls [DIR]",
		Short: "List the immediate children of a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			entries, err := walker.Collect(walker.ReadDir(cmd.Context(), dir))
			if err != nil {
				return err
			}
			th := a.theme()
			for _, e := range entries {
				printEntry(cmd.OutOrStdout(), th, e, long)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show mode and size")
	return cmd
}

func printEntry(w io.Writer, th ui.Theme, e walker.Entry, long bool) {
	name := th.Entry(e.Path, e.IsDir, e.IsSymlink)
	if !long {
		fmt.Fprintln(w, name)
		return
	}
	info, err := meta.Lstat(e.Path)
	if err != nil {
		fmt.Fprintf(w, "%s  %s\n", th.Error("?"), name)
		return
	}
	col := fmt.Sprintf("%s %10s", ui.FormatMode(info.IsDir, info.IsSymlink, uint32(info.Mode.Perm())), ui.FormatBytes(info.Size))
	fmt.Fprintf(w, "%s  %s\n", th.Muted(col), name)
}
