package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "streamta",
	Short: "Streaming technical analysis over candle feeds",
	Long: `Streamta runs candle data through bar consolidators and chained
technical indicators, one sample at a time.

It provides tools for:
  - Consolidating candles into bars by count or time span
  - Computing moving averages, ranges, oscillators, bands and candlestick patterns
  - Chaining and combining indicators from a YAML or JSON config
  - Journaling bars and indicator values to CSV or SQLite
  - Exposing run metrics to Prometheus`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
