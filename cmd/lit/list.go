package main

import (
	"github.com/mhzhang/litshelf/internal/catalog"
	"github.com/spf13/cobra"
)

var listCollection string

func init() {
	listCmd.Flags().StringVarP(&listCollection, "collection", "c", "", "Limit output to one collection")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored literature",
	Long: `List stored literature records.

Usage:
  lit list
  lit list -c "Machine Learning"

Without -c, records across all collections are listed grouped by
collection name with per-collection counts.`,
	RunE: runList,
}

// ListResponse is the JSON output of the list command.
type ListResponse struct {
	Count   int              `json:"count"`
	Records []catalog.Record `json:"records"`
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(databasePath(), dedupPolicy())
	if err != nil {
		exitWithError(ExitConfigError, "opening catalog: %v", err)
	}
	defer store.Close()

	var records []catalog.Record
	if listCollection != "" {
		records, err = store.ListByCollection(listCollection)
	} else {
		records, err = store.ListAll()
	}
	if err != nil {
		exitWithError(ExitDataError, "listing records: %v", err)
	}

	if humanOutput {
		printGroupedHuman(records)
		return nil
	}
	if records == nil {
		records = []catalog.Record{}
	}
	return outputJSON(ListResponse{Count: len(records), Records: records})
}
