package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fsio/internal/fsops"
	"github.com/bamsammich/fsio/internal/hashing"
	"github.com/bamsammich/fsio/internal/meta"
	"github.com/bamsammich/fsio/internal/pathutil"
	"github.com/bamsammich/fsio/internal/ui"
)

func newStatCmd() *cobra.Command {
	var deref bool

	cmd := &cobra.Command{
		Use:   "stat [flags] PATH...",
		Short: "Show size, kind, mode and timestamps",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, p := range args {
				stat := meta.Lstat
				if deref {
					stat = meta.Stat
				}
				info, err := stat(p)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				printInfo(cmd.OutOrStdout(), info)
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().BoolVarP(&deref, "dereference", "L", false, "follow a final symbolic link")
	return cmd
}

func printInfo(w io.Writer, info meta.Info) {
	kind := "other"
	switch {
	case info.IsSymlink:
		kind = "symlink"
	case info.IsDir:
		kind = "directory"
	case info.IsFile:
		kind = "file"
	}
	fmt.Fprintf(w, "  path: %s\n", info.Path)
	fmt.Fprintf(w, "  kind: %s\n", kind)
	fmt.Fprintf(w, "  size: %d (%s)\n", info.Size, ui.FormatBytes(info.Size))
	fmt.Fprintf(w, "  mode: %s\n", ui.FormatMode(info.IsDir, info.IsSymlink, uint32(info.Mode.Perm())))
	fmt.Fprintf(w, "modify: %s\n", info.ModTime.Format(time.RFC3339Nano))
	if !info.AccessTime.IsZero() {
		fmt.Fprintf(w, "access: %s\n", info.AccessTime.Format(time.RFC3339Nano))
	}
}

func newHashCmd() *cobra.Command {
	var (
		algo   string
		text   string
		uuid   bool
		random int
	)

	cmd := &cobra.Command{
		Use:   "hash [flags] [FILE...]",
		Short: "Print digests of files or text, or generate identifiers",
		Long: "Print digests of files or text, or generate identifiers.\n\nAlgorithms: " +
			joinAlgorithms() + " (default blake3).",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case uuid:
				fmt.Fprintln(cmd.OutOrStdout(), hashing.NewUUID())
				return nil
			case cmd.Flags().Changed("random"):
				b, err := hashing.RandomBytes(random)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(b))
				return nil
			}

			a, err := hashing.ParseAlgorithm(algo)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("text") {
				sum, err := hashing.HashText(text, a)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), sum)
				return nil
			}
			if len(args) == 0 {
				return errors.New("no input (give FILE, --text, --uuid or --random)")
			}

			var errs []error
			for _, p := range args {
				sum, err := hashing.HashFile(p, a)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, p)
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVarP(&algo, "algo", "a", string(hashing.BLAKE3), "digest algorithm")
	cmd.Flags().StringVar(&text, "text", "", "hash this string instead of files")
	cmd.Flags().BoolVar(&uuid, "uuid", false, "print a random UUID")
	cmd.Flags().IntVar(&random, "random", 16, "print N random bytes as hex")
	cmd.MarkFlagsMutuallyExclusive("uuid", "random", "text")
	return cmd
}

func joinAlgorithms() string {
	names := make([]string, 0, len(hashing.Algorithms()))
	for _, a := range hashing.Algorithms() {
		names = append(names, string(a))
	}
	return strings.Join(names, ", ")
}

// pathOps maps each path subcommand to its single-argument transform.
var pathOps = map[string]func(string) string{
	"slash":     pathutil.ToSlashAll,
	"backslash": pathutil.ToBackslashAll,
	"base":      pathutil.Basename,
	"dir":       pathutil.Dirname,
	"ext":       pathutil.Extname,
	"clean":     pathutil.Clean,
	"unc": func(p string) string {
		return fmt.Sprint(pathutil.IsUNC(p))
	},
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path OP ARG...",
		Short: "Apply a path transform: slash, backslash, unc, base, dir, ext, clean, join, exe",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, rest := args[0], args[1:]
			switch op {
			case "join":
				fmt.Fprintln(cmd.OutOrStdout(), pathutil.Join(rest...))
				return nil
			case "exe":
				exe, err := pathutil.Executable()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), exe)
				return nil
			}
			fn, ok := pathOps[op]
			if !ok {
				return fmt.Errorf("unknown path operation %q", op)
			}
			if len(rest) == 0 {
				return fmt.Errorf("path %s: missing argument", op)
			}
			for _, p := range rest {
				fmt.Fprintln(cmd.OutOrStdout(), fn(p))
			}
			return nil
		},
	}
}

func newMkdirCmd() *cobra.Command {
	var parents bool

	cmd := &cobra.Command{
		Use:   "mkdir [flags] DIR...",
		Short: "Create directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mk := fsops.Mkdir
			if parents {
				mk = fsops.MkdirAll
			}
			var errs []error
			for _, p := range args {
				if err := mk(p); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().BoolVarP(&parents, "parents", "p", false, "create missing parents; no error if existing")
	return cmd
}

func newRmCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "rm [flags] PATH...",
		Short: "Remove files or directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rm := fsops.Remove
			if recursive {
				rm = fsops.RemoveAll
			}
			var errs []error
			for _, p := range args {
				if err := rm(p); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove directories and their contents")
	return cmd
}
