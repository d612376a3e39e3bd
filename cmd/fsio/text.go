package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fsio/internal/fsops"
	"github.com/bamsammich/fsio/internal/linereader"
	"github.com/bamsammich/fsio/internal/textenc"
)

// encoding resolves --encoding over the config default.
func (a *app) encoding(cmd *cobra.Command, flagVal string) (textenc.Encoding, error) {
	label := flagVal
	if !cmd.Flags().Changed("encoding") && a.cfg.Read.Encoding != nil {
		label = *a.cfg.Read.Encoding
	}
	return textenc.Parse(label)
}

func newCatCmd(a *app) *cobra.Command {
	var (
		enc  string
		raw  bool
		list bool
	)

	cmd := &cobra.Command{
		Use:   "cat [flags] FILE",
		Short: "Print a file decoded from the given text encoding",
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return nil
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, l := range textenc.Labels() {
					fmt.Fprintln(cmd.OutOrStdout(), l)
				}
				return nil
			}
			if raw {
				res := linereader.ReadFileStream(args[0])
				_, _ = cmd.OutOrStdout().Write(res.Data)
				return res.Err
			}
			e, err := a.encoding(cmd, enc)
			if err != nil {
				return err
			}
			res := linereader.ReadFile(args[0], e)
			fmt.Fprint(cmd.OutOrStdout(), res.Text)
			if res.Err != nil && res.Text != "" {
				slog.Warn("output truncated by read fault", "path", args[0])
			}
			return res.Error()
		},
	}
	cmd.Flags().StringVarP(&enc, "encoding", "e", string(textenc.UTF8), "source text encoding")
	cmd.Flags().BoolVar(&raw, "raw", false, "copy bytes without decoding")
	cmd.Flags().BoolVar(&list, "list-encodings", false, "print supported encoding labels and exit")
	return cmd
}

func newWriteCmd(a *app) *cobra.Command {
	var enc string

	cmd := &cobra.Command{
		Use:   "write [flags] FILE",
		Short: "Replace FILE with stdin, encoded in the given text encoding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.encoding(cmd, enc)
			if err != nil {
				return err
			}
			in := linereader.ReadAll(cmd.InOrStdin(), linereader.DefaultDelimiter, 0, "<stdin>")
			if in.Err != nil {
				return in.Err
			}
			return fsops.WriteFileStream(args[0], string(in.Data), e)
		},
	}
	cmd.Flags().StringVarP(&enc, "encoding", "e", string(textenc.UTF8), "target text encoding")
	return cmd
}
