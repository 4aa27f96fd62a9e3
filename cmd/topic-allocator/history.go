package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"topic-allocator/internal/report"
	"topic-allocator/internal/store"
)

// shortIDLen is how much of a run ID the history shows. show and delete
// accept such prefixes.
const shortIDLen = 8

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved runs.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), historyTable(runs))

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list (0 = all)")

	return cmd
}

func historyTable(runs []store.Summary) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		id := r.ID
		if len(id) > shortIDLen {
			id = id[:shortIDLen]
		}

		rows = append(rows, []string{
			id,
			humanize.Time(r.CreatedAt),
			r.Source,
			strconv.Itoa(r.Pairs),
			humanize.Ftoa(r.Total),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Saved", "Source", "Pairs", "Total").
		Rows(rows...).
		Render()
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Print a saved run",
		Long: `Prints a saved run in the requested format. RUN_ID may be the full ID or
a unique prefix of at least four characters, as listed by history.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ro, err := settings(cmd)
			if err != nil {
				return err
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			run, err := s.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ro.Format == report.FormatText {
				fmt.Fprintf(out, "Run %s, saved %s\n", run.ID, humanize.Time(run.CreatedAt))
			}

			return report.Render(out, run.Result, ro)
		},
	}

	addOutputFlags(cmd)

	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN_ID",
		Short: "Remove a saved run from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])

			return nil
		},
	}
}
