// Package catalog persists literature records in a collection-scoped SQLite
// store with policy-driven duplicate detection.
package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Metadata holds the bibliographic fields produced by the extractor.
// Fields the extractor could not determine arrive as the "unknown" sentinel
// (year 0); the store does not validate field content.
type Metadata struct {
	Year    int    `json:"year"`
	Journal string `json:"journal"`
	Title   string `json:"title"`
	Authors string `json:"authors"` // comma-joined
	Summary string `json:"summary"`
}

// Record is a stored literature record joined with its collection name.
type Record struct {
	ID           int64  `json:"id"`
	CollectionID int64  `json:"collection_id"`
	Collection   string `json:"collection"`
	Metadata
	FilePath    string `json:"file_path"`
	ContentHash string `json:"content_hash,omitempty"`
}

// Duplicate identifies the collection an existing duplicate record lives in.
type Duplicate struct {
	CollectionID int64
	Collection   string
}

// Store wraps the SQLite catalog database.
type Store struct {
	db     *sql.DB
	policy Policy
}

const selectRecordFields = `l.id, l.collection_id, c.name,
	l.year, l.journal, l.title, l.authors, l.summary,
	l.file_path, l.content_hash`

// Open opens or creates the catalog database at path with the named
// duplicate policy ("content" or "fields"). The policy is fixed for the
// lifetime of the store; its uniqueness indexes are created on open.
func Open(path, policyName string) (*Store, error) {
	policy, ok := policyByName(policyName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policyName)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	s := &Store{db: db, policy: policy}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Policy returns the duplicate policy the store was opened with.
func (s *Store) Policy() Policy {
	return s.policy
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS collections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS literatures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			collection_id INTEGER NOT NULL,
			year INTEGER,
			journal TEXT,
			title TEXT,
			authors TEXT,
			summary TEXT,
			file_path TEXT NOT NULL,
			content_hash TEXT,
			FOREIGN KEY(collection_id) REFERENCES collections(id)
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	for _, ddl := range s.policy.indexes() {
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("creating policy index: %w", err)
		}
	}

	return nil
}

// EnsureCollection returns the id of the named collection, creating it if it
// does not exist yet. Lookup-then-insert, so repeated calls with the same
// name never create duplicates. Names match case-sensitively.
func (s *Store) EnsureCollection(name string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`SELECT id FROM collections WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("looking up collection %q: %w", name, err)
	}

	res, err := s.db.Exec(`INSERT INTO collections (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("creating collection %q: %w", name, err)
	}
	return res.LastInsertId()
}

// Insert stores a new literature record. The path must already be absolute;
// contentHash may be empty under the field-match policy. A policy violation
// is returned as *DuplicateKeyError carrying the colliding collection's
// name; it is a reportable outcome, not a fatal condition.
func (s *Store) Insert(collectionID int64, meta Metadata, path, contentHash string) (int64, error) {
	if dup, err := s.policy.PersistCheck(s, collectionID, meta, path); err != nil {
		return 0, fmt.Errorf("checking for duplicates: %w", err)
	} else if dup != nil {
		return 0, &DuplicateKeyError{CollectionID: dup.CollectionID, Collection: dup.Collection}
	}

	res, err := s.db.Exec(`
		INSERT INTO literatures (collection_id, year, journal, title, authors, summary, file_path, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		collectionID, meta.Year, meta.Journal, meta.Title, meta.Authors, meta.Summary,
		path, nullable(contentHash))
	if err != nil {
		if dupErr := s.translateConstraint(err, meta, path, contentHash); dupErr != nil {
			return 0, dupErr
		}
		return 0, fmt.Errorf("inserting record: %w", err)
	}

	return res.LastInsertId()
}

// translateConstraint converts a driver uniqueness violation into a
// *DuplicateKeyError naming the colliding collection. Returns nil when the
// error is not a constraint violation.
func (s *Store) translateConstraint(err error, meta Metadata, path, contentHash string) error {
	if !strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return nil
	}

	var dup *Duplicate
	if contentHash != "" {
		dup, _ = s.FindByHash(contentHash)
	}
	if dup == nil {
		dup, _ = s.FindByPath(path)
	}
	if dup == nil {
		return &DuplicateKeyError{}
	}
	return &DuplicateKeyError{CollectionID: dup.CollectionID, Collection: dup.Collection}
}

// FindByHash looks up a record by content fingerprint across all
// collections. Returns nil when no record matches.
func (s *Store) FindByHash(hash string) (*Duplicate, error) {
	row := s.db.QueryRow(`
		SELECT l.collection_id, c.name
		FROM literatures l
		JOIN collections c ON l.collection_id = c.id
		WHERE l.content_hash = ?`, hash)
	return scanDuplicate(row)
}

// FindByFields looks up a record in the given collection matching title,
// year and journal case-insensitively. Returns nil when no record matches.
func (s *Store) FindByFields(collectionID int64, meta Metadata) (*Duplicate, error) {
	row := s.db.QueryRow(`
		SELECT l.collection_id, c.name
		FROM literatures l
		JOIN collections c ON l.collection_id = c.id
		WHERE l.collection_id = ?
		  AND lower(l.title) = lower(?)
		  AND l.year = ?
		  AND lower(l.journal) = lower(?)`,
		collectionID, meta.Title, meta.Year, meta.Journal)
	return scanDuplicate(row)
}

// FindByPath looks up a record by stored file path across all collections.
func (s *Store) FindByPath(path string) (*Duplicate, error) {
	row := s.db.QueryRow(`
		SELECT l.collection_id, c.name
		FROM literatures l
		JOIN collections c ON l.collection_id = c.id
		WHERE l.file_path = ?`, path)
	return scanDuplicate(row)
}

func scanDuplicate(row *sql.Row) (*Duplicate, error) {
	var dup Duplicate
	err := row.Scan(&dup.CollectionID, &dup.Collection)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dup, nil
}

// ListAll returns every record across all collections, ordered by collection
// name then record id. The ordering makes grouped display deterministic.
func (s *Store) ListAll() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT ` + selectRecordFields + `
		FROM literatures l
		JOIN collections c ON l.collection_id = c.id
		ORDER BY c.name, l.id`)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ListByCollection returns the records of one named collection in insertion
// order. An absent or empty collection yields an empty slice, not an error.
func (s *Store) ListByCollection(name string) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT `+selectRecordFields+`
		FROM literatures l
		JOIN collections c ON l.collection_id = c.id
		WHERE c.name = ?
		ORDER BY l.id`, name)
	if err != nil {
		return nil, fmt.Errorf("listing collection %q: %w", name, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var r Record
		var journal, title, authors, summary, hash sql.NullString
		var year sql.NullInt64

		err := rows.Scan(&r.ID, &r.CollectionID, &r.Collection,
			&year, &journal, &title, &authors, &summary,
			&r.FilePath, &hash)
		if err != nil {
			return nil, err
		}

		r.Year = int(year.Int64)
		r.Journal = journal.String
		r.Title = title.String
		r.Authors = authors.String
		r.Summary = summary.String
		r.ContentHash = hash.String
		records = append(records, r)
	}
	return records, rows.Err()
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
