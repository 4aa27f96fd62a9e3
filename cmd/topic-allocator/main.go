// Package main provides the topic-allocator CLI.
//
// topic-allocator reads a table of student priorities per topic and assigns
// every topic to at most one student so that the sum of priorities is
// minimal. Runs can be saved to a local history and shown again later.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"topic-allocator/internal/config"
	"topic-allocator/internal/logging"
	"topic-allocator/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

func defaultConfigPath() string {
	return filepath.Join(".topic-allocator", "config.yaml")
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "topic-allocator",
		Short: "Assign seminar topics to students by minimal total priority",
		Long: `topic-allocator solves the assignment problem for a priority table.

The first row names the students, the first column names the topics and each
cell holds the priority a student gave a topic (1 = favourite). Empty or
non-numeric cells mean "not ranked" and get a priority worse than any ranked
one. Every topic gets at most one student and every student at most one topic
so that the sum of assigned priorities is minimal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error

			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			logger, err = logging.New(cfg.Logging, verbose)
			if err != nil {
				return err
			}

			logger.Debug("config loaded", zap.String("path", configPath))

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSolveCmd(),
		newBatchCmd(),
		newHistoryCmd(),
		newShowCmd(),
		newDeleteCmd(),
	)

	return root
}

func openStore() (*store.Store, error) {
	return store.New(cfg.Store.Path, logger)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
