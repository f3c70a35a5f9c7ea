// Package main provides the citenet CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

var (
	libraryFlag  string
	logLevelFlag string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citenet",
	Short: "Local document indexer and citation graph builder",
	Long: `citenet watches a folder of PDF papers, resolves each new document
against Semantic Scholar (falling back to reading the reference list out of
the PDF itself) and maintains a citation graph between the papers you have.

The index lives in papers_index.json at the library root. All commands output
JSON by default for easy integration with scripts and other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// S2_API_KEY may live in a .env file.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&libraryFlag, "library", "", "Library directory (default: $CITENET_LIBRARY, config library_path, ./papers)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Version = Version
}
