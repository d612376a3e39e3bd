package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/bamsammich/fsio/internal/fsops"
)

// newDocsCmd renders man pages or markdown for the whole command tree.
func newDocsCmd() *cobra.Command {
	var dir, format string

	cmd := &cobra.Command{
		Use:    "gen-docs",
		Short:  "Generate man pages or markdown for fsio",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := fsops.MkdirAll(dir); err != nil {
				return fmt.Errorf("gen-docs: %w", err)
			}
			root := cmd.Root()
			root.DisableAutoGenTag = true

			switch format {
			case "man":
				return doc.GenManTree(root, &doc.GenManHeader{
					Title:   "FSIO",
					Section: "1",
					Source:  "fsio " + version,
					Manual:  "fsio manual",
				}, dir)
			case "markdown", "md":
				return doc.GenMarkdownTree(root, dir)
			default:
				return fmt.Errorf("gen-docs: unknown format %q (want man or markdown)", format)
			}
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "docs", "output directory")
	cmd.Flags().StringVar(&format, "format", "man", "man or markdown")
	return cmd
}
