package main

import (
	"context"

	"github.com/mhzhang/litshelf/internal/catalog"
	"github.com/mhzhang/litshelf/internal/ingest"
	"github.com/mhzhang/litshelf/internal/pdftext"
	"github.com/spf13/cobra"
)

var (
	importCollection string
	importFile       string
	importDir        string
)

func init() {
	importCmd.Flags().StringVarP(&importCollection, "collection", "c", "", "Collection to import into")
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Single PDF file to import")
	importCmd.Flags().StringVarP(&importDir, "dir", "d", "", "Directory of PDFs to import")
	importCmd.MarkFlagRequired("collection")
	importCmd.MarkFlagsMutuallyExclusive("file", "dir")
	importCmd.MarkFlagsOneRequired("file", "dir")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import PDFs into a collection",
	Long: `Import PDF documents into a named collection.

Usage:
  lit import -c "Machine Learning" -f paper.pdf
  lit import -c "Machine Learning" -d ~/Downloads/papers

Metadata (year, journal, title, authors, summary) is extracted with an
LLM. Duplicates are detected per the configured policy and skipped; a
skipped document reports the collection the existing copy lives in.`,
	RunE: runImport,
}

// ImportResponse is the JSON output of the import command.
type ImportResponse struct {
	Collection string              `json:"collection"`
	Items      []ingest.ItemResult `json:"items"`
	Summary    ingest.Summary      `json:"summary"`
}

func runImport(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(databasePath(), dedupPolicy())
	if err != nil {
		exitWithError(ExitConfigError, "opening catalog: %v", err)
	}
	defer store.Close()

	pipeline := ingest.New(store, &pdftext.Reader{}, newExtractClient())
	ctx := context.Background()

	var items []ingest.ItemResult
	var summary ingest.Summary

	if importFile != "" {
		res, err := pipeline.IngestFile(ctx, importFile, importCollection)
		if err != nil {
			exitWithError(ExitDataError, "importing %s: %v", importFile, err)
		}
		items = append(items, res)
		summary = summarize(items)
		if humanOutput {
			printImportItem(1, 1, res)
		}
	} else {
		progress := func(i, n int, res ingest.ItemResult) {
			items = append(items, res)
			if humanOutput {
				printImportItem(i, n, res)
			}
		}
		summary, err = pipeline.IngestDir(ctx, importDir, importCollection, ".pdf", progress)
		if err != nil {
			exitWithError(ExitDataError, "importing directory: %v", err)
		}
	}

	if humanOutput {
		outputHuman("\nstored: %d  skipped: %d  failed: %d\n",
			summary.Stored, summary.Skipped, summary.Failed)
		return nil
	}
	return outputJSON(ImportResponse{Collection: importCollection, Items: items, Summary: summary})
}

func summarize(items []ingest.ItemResult) ingest.Summary {
	var s ingest.Summary
	for _, res := range items {
		switch res.Status {
		case ingest.StatusStored:
			s.Stored++
		case ingest.StatusDuplicate, ingest.StatusEmpty:
			s.Skipped++
		default:
			s.Failed++
		}
	}
	return s
}

func printImportItem(i, n int, res ingest.ItemResult) {
	switch res.Status {
	case ingest.StatusStored:
		outputHuman("[%d/%d] stored %s (id %d)\n", i, n, res.Path, res.RecordID)
	case ingest.StatusDuplicate:
		outputHuman("[%d/%d] skipped %s (duplicate in %q)\n", i, n, res.Path, res.Collection)
	case ingest.StatusEmpty:
		outputHuman("[%d/%d] skipped %s (no extractable text)\n", i, n, res.Path)
	default:
		outputHuman("[%d/%d] failed %s: %s\n", i, n, res.Path, res.Error)
	}
}
