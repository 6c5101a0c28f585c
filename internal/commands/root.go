package commands

import (
	"os"

	"RallyFinder/internal/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "rallyfinder",
	Short: "Find the starting points of stock rallies",
	Long: `RallyFinder downloads daily price history for a stock, computes MACD,
RSI and Bollinger bands, and flags the days where MACD crosses above its
signal line while RSI is rising.

Charts are written as PNG files and a text summary is printed.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = config.DefaultPath
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
