// Package retrieval answers natural-language questions over a collection by
// delegating ranking to an external collaborator.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/mhzhang/litshelf/internal/catalog"
	"github.com/mhzhang/litshelf/internal/extract"
)

// NoLiteratureAnswer is returned for collections with zero records.
const NoLiteratureAnswer = "No literature in this collection."

// Ranker selects relevant record ids from a serialized corpus and answers
// the question.
type Ranker interface {
	Rank(ctx context.Context, question, corpus string) (extract.SearchResult, error)
}

// Result is a reconciled search outcome: ids in the ranker's relevance
// order, with the matching records resolved for display.
type Result struct {
	Answer      string           `json:"answer"`
	RelevantIDs []int64          `json:"relevant_ids"`
	Records     []catalog.Record `json:"records"`
}

// Service runs collection-scoped retrieval.
type Service struct {
	store  *catalog.Store
	ranker Ranker
}

// New creates a retrieval service.
func New(store *catalog.Store, ranker Ranker) *Service {
	return &Service{store: store, ranker: ranker}
}

// Search answers a question against one named collection. An empty
// collection short-circuits without invoking the ranker. Ids the ranker
// returns that don't correspond to a loaded record are dropped silently:
// the collaborator is not a trusted source of id validity.
func (s *Service) Search(ctx context.Context, question, collection string) (*Result, error) {
	records, err := s.store.ListByCollection(collection)
	if err != nil {
		return nil, fmt.Errorf("loading collection: %w", err)
	}

	if len(records) == 0 {
		return &Result{Answer: NoLiteratureAnswer, RelevantIDs: []int64{}}, nil
	}

	corpus := buildCorpus(collection, records)
	ranked, err := s.ranker.Rank(ctx, question, corpus)
	if err != nil {
		return nil, fmt.Errorf("ranking: %w", err)
	}

	byID := make(map[int64]catalog.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	result := &Result{Answer: ranked.Answer, RelevantIDs: []int64{}}
	for _, id := range ranked.RelevantIDs {
		r, ok := byID[id]
		if !ok {
			continue
		}
		result.RelevantIDs = append(result.RelevantIDs, id)
		result.Records = append(result.Records, r)
	}

	return result, nil
}

// buildCorpus serializes the collection's records into the context block
// handed to the ranker.
func buildCorpus(collection string, records []catalog.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Literature in collection %q:\n\n", collection)
	for _, r := range records {
		fmt.Fprintf(&b, "ID: %d\n", r.ID)
		fmt.Fprintf(&b, "Year: %d\n", r.Year)
		fmt.Fprintf(&b, "Journal: %s\n", r.Journal)
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
		fmt.Fprintf(&b, "Authors: %s\n", r.Authors)
		fmt.Fprintf(&b, "Summary: %s\n", r.Summary)
		b.WriteString(strings.Repeat("-", 40))
		b.WriteString("\n")
	}
	return b.String()
}
