package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/wavelabel/dataset"
	"github.com/rustyeddy/wavelabel/market"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Inspect the sample dataset",
	Long: `Inspect a dataset file without starting a review.

Subcommands:
  check - Load the file and report label problems

Examples:
  wavelabel dataset check --data elliott_impulse_dataset.json`,
}

var datasetCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load a dataset and report label problems",
	Args:  cobra.NoArgs,
	RunE:  runDatasetCheck,
}

var datasetPath string

func init() {
	rootCmd.AddCommand(datasetCmd)
	datasetCmd.AddCommand(datasetCheckCmd)

	datasetCmd.PersistentFlags().StringVarP(&datasetPath, "data", "d", "", "dataset file (default from config)")
}

func runDatasetCheck(cmd *cobra.Command, args []string) error {
	path := datasetPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Dataset.Path
	}

	ds, err := dataset.NewFileStore(path).Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(ds) == 0 {
		fmt.Fprintf(out, "✗ %s: no data found, regenerate it\n", path)
		return fmt.Errorf("dataset %s is empty", path)
	}

	bars := 0
	lo, hi := 0.0, 0.0
	for i, s := range ds {
		bars += len(s.Data)
		l, h := market.Range(s.Data)
		if i == 0 || l < lo {
			lo = l
		}
		if i == 0 || h > hi {
			hi = h
		}
	}

	symbols := ds.Symbols()
	fmt.Fprintf(out, "Dataset: %s\n", path)
	fmt.Fprintf(out, "  Samples: %d (%d bars)\n", len(ds), bars)
	fmt.Fprintf(out, "  Symbols: %d (%s)\n", len(symbols), strings.Join(symbols, ", "))
	fmt.Fprintf(out, "  Price range: %.5f - %.5f\n", lo, hi)

	issues := ds.Check()
	if len(issues) == 0 {
		fmt.Fprintln(out, "✓ All wave labels are consistent")
		return nil
	}

	fmt.Fprintf(out, "✗ %d samples with label problems:\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(out, "  %s\n", strings.ReplaceAll(issue.String(), "\n", "; "))
	}
	return nil
}
