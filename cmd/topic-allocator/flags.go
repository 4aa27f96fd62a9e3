package main

import (
	"github.com/spf13/cobra"

	"topic-allocator/internal/allocate"
	"topic-allocator/internal/report"
)

// addInputFlags registers the flags that override the input section.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("delimiter", "", `cell delimiter: a single character, "tab" or "auto"`)
	cmd.Flags().Bool("transpose", false, "treat rows as students and columns as topics")
}

// addOutputFlags registers the flags that override the output section.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "output format: text, csv, json or yaml")
}

// applyFlags copies changed flags over the loaded configuration and
// validates the result.
func applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()

	if flags.Changed("delimiter") {
		cfg.Input.Delimiter, _ = flags.GetString("delimiter")
	}

	if flags.Changed("transpose") {
		cfg.Input.Transpose, _ = flags.GetBool("transpose")
	}

	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}

	if flags.Changed("concurrency") {
		cfg.Batch.Concurrency, _ = flags.GetInt("concurrency")
	}

	return cfg.Validate()
}

func settings(cmd *cobra.Command) (allocate.Config, report.Options, error) {
	if err := applyFlags(cmd); err != nil {
		return allocate.Config{}, report.Options{}, err
	}

	ac, err := cfg.Allocate()
	if err != nil {
		return allocate.Config{}, report.Options{}, err
	}

	ro, err := cfg.Report()
	if err != nil {
		return allocate.Config{}, report.Options{}, err
	}

	return ac, ro, nil
}
