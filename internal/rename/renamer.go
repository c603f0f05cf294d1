package rename

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mhzhang/litshelf/internal/extract"
)

// Status is the terminal state of one file's rename.
type Status string

const (
	StatusRenamed Status = "renamed"
	StatusSkipped Status = "skipped" // already canonical
	StatusFailed  Status = "failed"
)

// ItemResult reports the outcome of renaming a single file.
type ItemResult struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name,omitempty"`
	Status  Status `json:"status"`
	Err     error  `json:"-"`
	Error   string `json:"error,omitempty"`
}

// Summary counts terminal states across a batch pass.
type Summary struct {
	Renamed int `json:"renamed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// DocumentReader turns a document path into plain text.
type DocumentReader interface {
	ReadText(path string) (string, error)
}

// CitationExtractor produces filename metadata from document text.
type CitationExtractor interface {
	ExtractCitation(ctx context.Context, text string) (extract.CitationInfo, error)
}

// ProgressFunc receives each item result as a batch pass progresses.
type ProgressFunc func(i, n int, result ItemResult)

// Renamer renames PDF files in place to the canonical form.
type Renamer struct {
	reader    DocumentReader
	extractor CitationExtractor

	// Separator joins filename segments; defaults to DefaultSeparator.
	Separator string

	// WithText also renames a same-stem .txt companion as an
	// all-or-nothing pair with the PDF.
	WithText bool
}

// New creates a Renamer with the default separator.
func New(reader DocumentReader, extractor CitationExtractor) *Renamer {
	return &Renamer{reader: reader, extractor: extractor, Separator: DefaultSeparator}
}

// RenameDir runs a batch pass over the direct-child PDF files of dir, in
// discovery order. Files already in canonical form are skipped without
// reading or extraction; each failure is reported per-file and never aborts
// the batch. Running the pass twice leaves the second run with no work.
func (r *Renamer) RenameDir(ctx context.Context, dir string, progress ProgressFunc) (Summary, error) {
	var summary Summary

	entries, err := os.ReadDir(dir)
	if err != nil {
		return summary, fmt.Errorf("reading directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, e.Name())
	}

	for i, name := range files {
		res := r.renameOne(ctx, dir, name)
		switch res.Status {
		case StatusRenamed:
			summary.Renamed++
		case StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
		if progress != nil {
			progress(i+1, len(files), res)
		}
	}

	return summary, nil
}

func (r *Renamer) renameOne(ctx context.Context, dir, name string) ItemResult {
	res := ItemResult{OldName: name}

	// Idempotence guard runs before any read or extraction call.
	if IsCanonical(name, r.Separator) {
		res.Status = StatusSkipped
		return res
	}

	path := filepath.Join(dir, name)
	text, err := r.reader.ReadText(path)
	if err != nil {
		return failItem(res, fmt.Errorf("reading document: %w", err))
	}

	info, err := r.extractor.ExtractCitation(ctx, text)
	if err != nil {
		return failItem(res, fmt.Errorf("extracting citation: %w", err))
	}

	citation := Citation{Year: info.Year, Journal: info.Journal, Title: info.Title, Author: info.Author}
	newName := Synthesize(citation, filepath.Ext(name), r.Separator)

	if r.WithText {
		if err := r.renameWithCompanion(dir, name, newName); err != nil {
			return failItem(res, err)
		}
	} else {
		if err := os.Rename(path, filepath.Join(dir, newName)); err != nil {
			return failItem(res, fmt.Errorf("renaming: %w", err))
		}
	}

	res.Status = StatusRenamed
	res.NewName = newName
	return res
}

// renameWithCompanion renames the PDF and its same-stem .txt companion as a
// unit. If the companion rename fails the PDF rename is rolled back, so a
// failed item never leaves the pair half-renamed. Absent companions are not
// an error; the PDF is renamed alone.
func (r *Renamer) renameWithCompanion(dir, oldName, newName string) error {
	oldPath := filepath.Join(dir, oldName)
	newPath := filepath.Join(dir, newName)

	oldStem := strings.TrimSuffix(oldName, filepath.Ext(oldName))
	newStem := strings.TrimSuffix(newName, filepath.Ext(newName))
	oldText := filepath.Join(dir, oldStem+".txt")
	newText := filepath.Join(dir, newStem+".txt")

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("renaming: %w", err)
	}

	if _, err := os.Stat(oldText); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		// Companion unreadable: undo the PDF rename and report.
		os.Rename(newPath, oldPath)
		return fmt.Errorf("checking companion: %w", err)
	}

	if err := os.Rename(oldText, newText); err != nil {
		if undoErr := os.Rename(newPath, oldPath); undoErr != nil {
			return fmt.Errorf("renaming companion: %w (rollback also failed: %v)", err, undoErr)
		}
		return fmt.Errorf("renaming companion: %w (original rename rolled back)", err)
	}

	return nil
}

func failItem(res ItemResult, err error) ItemResult {
	res.Status = StatusFailed
	res.Err = err
	res.Error = err.Error()
	return res
}
