package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "binrw",
	Short: "Inspect and build binary records",
	Long: `binrw decodes and encodes flat binary records described by a YAML
layout, wraps payloads in checksummed frames and keeps frames in a local
archive.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func logf(format string, args ...any) {
	if verbose {
		log.Printf(format, args...)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stderr")
}
