// Package cli implements the pricecatcher command line interface: a
// serve command that runs the browser UI server and a query command
// for one-shot headless queries against the published database.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pricecatcher",
	Short: "Query interface for the published PriceCatcher database",
	Long: `Pricecatcher downloads the published PriceCatcher DuckDB database
from Google Drive using a service-account credential and lets you run
ad-hoc SQL against it, either through a browser UI (serve) or directly
from the terminal (query).`,
	Version: "0.1.0",
}

var configPath string

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pricecatcher.yml", "path to configuration file")
}
