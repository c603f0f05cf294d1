package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mhzhang/litshelf/internal/catalog"
)

const (
	// ListTitleMaxLen caps titles in list output.
	ListTitleMaxLen = 70
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString shortens s to max characters with an ellipsis.
func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// printRecordHuman prints one record indented under its collection heading.
func printRecordHuman(r catalog.Record) {
	fmt.Printf("  [%d] %s\n", r.ID, truncateString(r.Title, ListTitleMaxLen))
	fmt.Printf("      %s, %s (%d)\n", r.Authors, r.Journal, r.Year)
	fmt.Printf("      %s\n", r.FilePath)
}

// printGroupedHuman prints records grouped by collection with per-collection
// counts. Records must already be ordered by collection name.
func printGroupedHuman(records []catalog.Record) {
	if len(records) == 0 {
		fmt.Println("No literature stored.")
		return
	}

	start := 0
	for i := 1; i <= len(records); i++ {
		if i == len(records) || records[i].Collection != records[start].Collection {
			group := records[start:i]
			fmt.Printf("%s (%d)\n", group[0].Collection, len(group))
			for _, r := range group {
				printRecordHuman(r)
			}
			fmt.Println()
			start = i
		}
	}
}
