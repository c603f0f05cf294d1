// Package main provides the litrename CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mhzhang/litshelf/internal/config"
	"github.com/mhzhang/litshelf/internal/extract"
	"github.com/mhzhang/litshelf/internal/pdftext"
	"github.com/mhzhang/litshelf/internal/rename"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Exit codes shared with the lit binary.
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitConfigError = 2
)

var (
	humanOutput     bool
	renameDir       string
	renameSeparator string
	renameWithText  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "litrename",
	Short: "Rename PDF files to canonical literature filenames",
	Long: `litrename renames the PDF files of a directory to the canonical
year__journal__title__author form, extracting the citation fields with
an LLM.

Usage:
  litrename -d ~/Downloads/papers
  litrename -d ~/Downloads/papers --with-text

Files already in canonical form are skipped, so running the tool twice
over the same directory is a no-op. With --with-text, a same-stem .txt
companion is renamed together with its PDF; the pair either renames
completely or not at all.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRename,
}

func init() {
	// Load .env file if present (for LITSHELF_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Flags().StringVarP(&renameDir, "dir", "d", "", "Directory of PDFs to rename")
	rootCmd.Flags().StringVar(&renameSeparator, "separator", "", "Filename segment separator (default \"__\")")
	rootCmd.Flags().BoolVar(&renameWithText, "with-text", false, "Also rename same-stem .txt companions")
	rootCmd.MarkFlagRequired("dir")
	rootCmd.Version = Version
}

// RenameResponse is the JSON output of a batch pass.
type RenameResponse struct {
	Dir       string              `json:"dir"`
	Separator string              `json:"separator"`
	Items     []rename.ItemResult `json:"items"`
	Summary   rename.Summary      `json:"summary"`
}

func runRename(cmd *cobra.Command, args []string) error {
	sep := renameSeparator
	if sep == "" {
		sep = config.GetSeparator()
	}
	if sep == "" {
		sep = rename.DefaultSeparator
	}

	key, err := config.ResolveAPIKey()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	opts := []extract.Option{extract.WithAPIKey(key), extract.WithRetries(extract.DefaultRetries)}
	if url := config.GetBaseURL(); url != "" {
		opts = append(opts, extract.WithBaseURL(url))
	}
	if model := config.GetModel(); model != "" {
		opts = append(opts, extract.WithModel(model))
	}

	r := rename.New(&pdftext.Reader{}, extract.NewClient(opts...))
	r.Separator = sep
	r.WithText = renameWithText

	if humanOutput {
		fmt.Printf("renaming in %s (separator %q, max length %d)\n\n",
			renameDir, sep, rename.MaxFilenameLength)
	}

	var items []rename.ItemResult
	progress := func(i, n int, res rename.ItemResult) {
		items = append(items, res)
		if humanOutput {
			printRenameItem(i, n, res)
		}
	}

	summary, err := r.RenameDir(context.Background(), renameDir, progress)
	if err != nil {
		exitWithError(ExitError, "renaming directory: %v", err)
	}

	if humanOutput {
		fmt.Printf("\nrenamed: %d  skipped: %d  failed: %d\n",
			summary.Renamed, summary.Skipped, summary.Failed)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(RenameResponse{Dir: renameDir, Separator: sep, Items: items, Summary: summary})
}

func printRenameItem(i, n int, res rename.ItemResult) {
	switch res.Status {
	case rename.StatusRenamed:
		fmt.Printf("[%d/%d] %s -> %s\n", i, n, res.OldName, res.NewName)
	case rename.StatusSkipped:
		fmt.Printf("[%d/%d] %s (already canonical)\n", i, n, res.OldName)
	default:
		fmt.Printf("[%d/%d] %s failed: %s\n", i, n, res.OldName, res.Error)
	}
}

func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]string{"error": msg})
	}
	os.Exit(code)
}
