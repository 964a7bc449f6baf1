// Package cmd provides the CLI commands for meterup.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var (
	cfgFile     string
	verbose     bool
	withHistory bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "meterup",
	Short: "Look up electricity bills by month",
	Long: `meterup fetches utility bill summaries for a billing month and meter
number, and pages through adjacent months.

Without a subcommand it opens the interactive form.

Examples:
  meterup
  meterup fetch --month March --year 2023 --biller 987654
  meterup fetch --month March --year 2023 --biller 987654 --next 2 --export bill.pdf
  meterup range --from 2023-01 --to 2023-06 --account 987654`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

// Execute runs the CLI
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "meterup: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default from $METERUP_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&withHistory, "history", false, "record lookups in the local history database")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "meterup version %s\n", Version)
	},
}
