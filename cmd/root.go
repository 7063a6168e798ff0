// =============================================================================
// NAI File Parser - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (naiparse)
//   ├── processCmd (naiparse process)
//   └── versionCmd (naiparse version)
//
// The root command owns the global flags (--config, --verbose); each
// subcommand loads the configuration itself so that configuration errors
// surface per command.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose forces debug logging regardless of the configured level.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "naiparse",
	Short: "NAI File Parser - Parse bank narrative files into tabular outputs",
	Long: `NAI File Parser reads NAI bank narrative files, assembles their record
hierarchy (file, groups, accounts, transactions), validates control totals
and produces tabular outputs for reporting and warehouse loading.

Key Features:
  - Continuation-line merging and record classification
  - Hierarchy assembly with recoverable structural warnings
  - Exhaustive control total reconciliation per file, group and account
  - Ten selectable named outputs (CSV, JSON, text, checks workbook)
  - Concurrent processing with automatic input archival

Example Usage:
  naiparse process                       # Process all files in the input directory
  naiparse process --config ./my.yaml    # Use a custom configuration file
  naiparse process --outputs checks      # Materialize only the checks output`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
