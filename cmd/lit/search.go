package main

import (
	"context"

	"github.com/mhzhang/litshelf/internal/catalog"
	"github.com/mhzhang/litshelf/internal/retrieval"
	"github.com/spf13/cobra"
)

var (
	searchCollection string
	searchQuestion   string
)

func init() {
	searchCmd.Flags().StringVarP(&searchCollection, "collection", "c", "", "Collection to search within")
	searchCmd.Flags().StringVarP(&searchQuestion, "question", "q", "", "Natural-language question")
	searchCmd.MarkFlagRequired("collection")
	searchCmd.MarkFlagRequired("question")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Ask a natural-language question of a collection",
	Long: `Search one collection with a natural-language question.

Usage:
  lit search -c "Machine Learning" -q "which papers use transformers?"

The collection's records are ranked by an LLM; the answer names the
relevant records in relevance order. An empty collection answers
immediately without an LLM call.`,
	RunE: runSearch,
}

// SearchResponse is the JSON output of the search command.
type SearchResponse struct {
	Collection string           `json:"collection"`
	Question   string           `json:"question"`
	Answer     string           `json:"answer"`
	Records    []catalog.Record `json:"records"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(databasePath(), dedupPolicy())
	if err != nil {
		exitWithError(ExitConfigError, "opening catalog: %v", err)
	}
	defer store.Close()

	svc := retrieval.New(store, newExtractClient())
	result, err := svc.Search(context.Background(), searchQuestion, searchCollection)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if humanOutput {
		outputHuman("%s\n", result.Answer)
		if len(result.Records) > 0 {
			outputHuman("\nMatched literature:\n")
			for _, r := range result.Records {
				printRecordHuman(r)
			}
		}
		return nil
	}

	return outputJSON(SearchResponse{
		Collection: searchCollection,
		Question:   searchQuestion,
		Answer:     result.Answer,
		Records:    result.Records,
	})
}
