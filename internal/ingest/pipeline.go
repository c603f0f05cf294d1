// Package ingest orchestrates the document ingestion pipeline: read,
// fingerprint, duplicate check, extract, persist.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mhzhang/litshelf/internal/catalog"
	"github.com/mhzhang/litshelf/internal/extract"
	"github.com/mhzhang/litshelf/internal/fingerprint"
	"github.com/mhzhang/litshelf/internal/pdftext"
)

// Status is the terminal state of one document's ingestion.
type Status string

const (
	StatusStored        Status = "stored"
	StatusDuplicate     Status = "skipped_duplicate"
	StatusEmpty         Status = "skipped_empty"
	StatusNotFound      Status = "not_found"
	StatusReadFailed    Status = "read_failed"
	StatusExtractFailed Status = "extract_failed"
)

// ItemResult reports the outcome of ingesting a single document.
type ItemResult struct {
	Path       string `json:"path"`
	Status     Status `json:"status"`
	RecordID   int64  `json:"record_id,omitempty"`
	Collection string `json:"collection,omitempty"` // where a duplicate already lives
	Err        error  `json:"-"`
	Error      string `json:"error,omitempty"`
}

// Summary counts terminal states across a batch. Stored+Skipped+Failed
// always equals the number of items considered.
type Summary struct {
	Stored  int `json:"stored"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func (s *Summary) add(r ItemResult) {
	switch r.Status {
	case StatusStored:
		s.Stored++
	case StatusDuplicate, StatusEmpty:
		s.Skipped++
	default:
		s.Failed++
	}
}

// DocumentReader turns a document path into normalized plain text.
type DocumentReader interface {
	ReadText(path string) (string, error)
}

// Extractor produces bibliographic metadata from document text.
type Extractor interface {
	ExtractPaper(ctx context.Context, text string) (extract.PaperInfo, error)
}

// Pipeline ingests documents into a catalog collection. The reader and
// extractor are injected so tests can substitute stubs.
type Pipeline struct {
	store     *catalog.Store
	reader    DocumentReader
	extractor Extractor
}

// New creates an ingestion pipeline.
func New(store *catalog.Store, reader DocumentReader, extractor Extractor) *Pipeline {
	return &Pipeline{store: store, reader: reader, extractor: extractor}
}

// IngestFile runs one document through the pipeline into the named
// collection. All per-item failures are converted into the returned
// ItemResult; the error return is reserved for store-level faults.
func (p *Pipeline) IngestFile(ctx context.Context, path, collection string) (ItemResult, error) {
	res := ItemResult{Path: path}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fail(res, StatusReadFailed, err), nil
	}
	res.Path = absPath

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return fail(res, StatusNotFound, fmt.Errorf("file does not exist: %s", absPath)), nil
		}
		return fail(res, StatusReadFailed, err), nil
	}

	text, err := p.reader.ReadText(absPath)
	if err != nil {
		if errors.Is(err, pdftext.ErrEmptyContent) {
			res.Status = StatusEmpty
			return res, nil
		}
		return fail(res, StatusReadFailed, err), nil
	}

	// Under the content policy the fingerprint lookup runs before the
	// extraction call, so known content never costs an LLM request.
	var hash string
	if p.store.Policy().NeedsFingerprint() {
		hash = fingerprint.Text(text)
		dup, err := p.store.Policy().PreCheck(p.store, hash)
		if err != nil {
			return res, fmt.Errorf("duplicate pre-check: %w", err)
		}
		if dup != nil {
			res.Status = StatusDuplicate
			res.Collection = dup.Collection
			return res, nil
		}
	}

	info, err := p.extractor.ExtractPaper(ctx, text)
	if err != nil {
		return fail(res, StatusExtractFailed, err), nil
	}

	collID, err := p.store.EnsureCollection(collection)
	if err != nil {
		return res, err
	}

	meta := catalog.Metadata{
		Year:    info.Year,
		Journal: info.Journal,
		Title:   info.Title,
		Authors: info.Authors,
		Summary: info.Summary,
	}

	recordID, err := p.store.Insert(collID, meta, absPath, hash)
	if err != nil {
		var dupErr *catalog.DuplicateKeyError
		if errors.As(err, &dupErr) {
			res.Status = StatusDuplicate
			res.Collection = dupErr.Collection
			return res, nil
		}
		return res, err
	}

	res.Status = StatusStored
	res.RecordID = recordID
	return res, nil
}

// ProgressFunc receives each item result as a batch progresses. i is
// 1-based; n is the number of items discovered.
type ProgressFunc func(i, n int, result ItemResult)

// IngestDir ingests every direct-child file of dir with the expected
// extension (no recursion), in discovery order, strictly sequentially. One
// document's failure never blocks the rest of the batch.
func (p *Pipeline) IngestDir(ctx context.Context, dir, collection, ext string, progress ProgressFunc) (Summary, error) {
	var summary Summary

	files, err := listDocuments(dir, ext)
	if err != nil {
		return summary, err
	}

	for i, name := range files {
		res, err := p.IngestFile(ctx, filepath.Join(dir, name), collection)
		if err != nil {
			return summary, err
		}
		summary.add(res)
		if progress != nil {
			progress(i+1, len(files), res)
		}
	}

	return summary, nil
}

// listDocuments returns the direct-child file names of dir carrying the
// extension, in the order the directory listing reports them.
func listDocuments(dir, ext string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory does not exist: %s", dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

func fail(res ItemResult, status Status, err error) ItemResult {
	res.Status = status
	res.Err = err
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
