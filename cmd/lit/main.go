// Package main provides the lit CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mhzhang/litshelf/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// dbPath overrides the catalog database location
var dbPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lit",
	Short: "Literature catalog with LLM-assisted cataloging and retrieval",
	Long: `lit maintains a collection-scoped catalog of research literature.

Core features:
  - Import PDFs with LLM-extracted bibliographic metadata
  - Duplicate detection by content fingerprint or bibliographic fields
  - Natural-language search within a collection
  - Grouped listing of the whole catalog

Records are stored in a local SQLite database. All commands output JSON
by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for LITSHELF_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Catalog database path (default: config, then XDG data dir)")
	rootCmd.Version = Version
}

// databasePath resolves the catalog database location: the --db flag wins,
// then the global config, then the default under the XDG data directory.
func databasePath() string {
	if dbPath != "" {
		return dbPath
	}
	if p := config.GetDatabase(); p != "" {
		return p
	}
	return config.DefaultDatabasePath()
}

// dedupPolicy resolves the duplicate policy name from the global config,
// defaulting to content fingerprinting.
func dedupPolicy() string {
	if p := config.GetDedupPolicy(); p != "" {
		return p
	}
	return "content"
}
