package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/wavelabel/config"
)

var rootCmd = &cobra.Command{
	Use:   "wavelabel",
	Short: "Review labeled Elliott Wave impulse samples",
	Long: `Wavelabel is a reviewer for labeled Elliott Wave impulse samples.

It serves a single page that draws each sample as a candlestick chart with
the labeled wave on top, and lets a reviewer step through the dataset:
  - Prev moves back one sample
  - Delete (Incorrect) drops the sample and rewrites the dataset file
  - Keep (Correct) moves on to the next sample

Every decision is recorded in a review journal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON), WAVELABEL_* env vars override it")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
