package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"topic-allocator/internal/allocate"
	"topic-allocator/internal/report"
)

func newSolveCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Allocate topics for one priority table",
		Long: `Reads FILE, allocates topics and prints the allocation together with the
mean assigned priority. With --save the run is added to the history.

Example:
  topic-allocator solve priorities.csv --format json --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], save)
		},
	}

	addInputFlags(cmd)
	addOutputFlags(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "save the run to the history")

	return cmd
}

func runSolve(cmd *cobra.Command, path string, save bool) error {
	ac, ro, err := settings(cmd)
	if err != nil {
		return err
	}

	res, err := allocate.NewAllocator(ac, logger).AllocateFile(cmd.Context(), path)
	if err != nil {
		return err
	}

	for _, d := range res.Diagnostics.Warnings {
		logger.Warn(d.Message, zap.String("code", d.Code), zap.String("source", d.Source))
	}

	if err := report.Render(cmd.OutOrStdout(), res, ro); err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}

	if !save {
		return nil
	}

	return saveResults(cmd, res)
}

func saveResults(cmd *cobra.Command, results ...*allocate.Result) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	for _, res := range results {
		run, err := s.SaveRun(cmd.Context(), res)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s (%s)\n", run.ID, res.Source)
	}

	return nil
}
