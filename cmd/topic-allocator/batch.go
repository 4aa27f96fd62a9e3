package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"topic-allocator/internal/allocate"
	"topic-allocator/internal/report"
)

func newBatchCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "batch FILE...",
		Short: "Allocate topics for several priority tables concurrently",
		Long: `Solves every FILE independently, printing one result block per file in
argument order. A file that fails is reported and does not stop the others;
the command exits non-zero if any file failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args, save)
		},
	}

	addInputFlags(cmd)
	addOutputFlags(cmd)
	cmd.Flags().Int("concurrency", 0, "number of files solved at once (default from config)")
	cmd.Flags().BoolVar(&save, "save", false, "save successful runs to the history")

	return cmd
}

func runBatch(cmd *cobra.Command, paths []string, save bool) error {
	ac, ro, err := settings(cmd)
	if err != nil {
		return err
	}

	items, err := allocate.NewAllocator(ac, logger).Batch(cmd.Context(), paths)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	var (
		solved []*allocate.Result
		failed int
	)

	for _, item := range items {
		if item.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", item.Path, item.Err)

			continue
		}

		writeSeparator(out, ro.Format, item.Path, len(solved) == 0)

		if err := report.Render(out, item.Result, ro); err != nil {
			return fmt.Errorf("failed to render %s: %w", item.Path, err)
		}

		solved = append(solved, item.Result)
	}

	if save && len(solved) > 0 {
		if err := saveResults(cmd, solved...); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}

	return nil
}

// writeSeparator introduces the block of one file. Text output gets a title
// line; YAML output gets a document marker so the stream stays parseable.
func writeSeparator(w io.Writer, f report.Format, path string, first bool) {
	switch f {
	case report.FormatText:
		if !first {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s ==\n", path)
	case report.FormatYAML:
		fmt.Fprintln(w, "---")
	}
}
