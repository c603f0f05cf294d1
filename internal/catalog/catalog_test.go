package catalog

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T, policy string) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath, policy)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var testMeta = Metadata{
	Year:    2020,
	Journal: "Nature",
	Title:   "Deep Learning",
	Authors: "Alice, Bob",
	Summary: "A survey of deep learning methods.",
}

func TestOpenUnknownPolicy(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	if _, err := Open(dbPath, "bogus"); err == nil {
		t.Fatal("Open() with unknown policy should fail")
	}
}

func TestEnsureCollectionIdempotent(t *testing.T) {
	s := openTestStore(t, PolicyContent)

	id1, err := s.EnsureCollection("ML")
	if err != nil {
		t.Fatalf("EnsureCollection() error = %v", err)
	}
	id2, err := s.EnsureCollection("ML")
	if err != nil {
		t.Fatalf("EnsureCollection() second call error = %v", err)
	}
	if id1 != id2 {
		t.Errorf("EnsureCollection() returned different ids: %d, %d", id1, id2)
	}

	// Lookups are case-sensitive: "ml" is a distinct collection.
	id3, err := s.EnsureCollection("ml")
	if err != nil {
		t.Fatalf("EnsureCollection() error = %v", err)
	}
	if id3 == id1 {
		t.Error("EnsureCollection() should treat names case-sensitively")
	}
}

func TestContentPolicyDedupAcrossCollections(t *testing.T) {
	s := openTestStore(t, PolicyContent)

	mlID, _ := s.EnsureCollection("ML")
	csID, _ := s.EnsureCollection("CS")

	hash := "abc123"
	if _, err := s.Insert(mlID, testMeta, "/papers/a.pdf", hash); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// Pre-check path: the pipeline asks before extraction.
	dup, err := s.FindByHash(hash)
	if err != nil {
		t.Fatalf("FindByHash() error = %v", err)
	}
	if dup == nil || dup.Collection != "ML" {
		t.Fatalf("FindByHash() = %v, want duplicate in ML", dup)
	}

	// Insert path: identical content under a different collection is
	// rejected globally, reporting the first collection's name.
	_, err = s.Insert(csID, testMeta, "/papers/b.pdf", hash)
	var dupErr *DuplicateKeyError
	if !IsDuplicateKey(err) {
		t.Fatalf("Insert() error = %v, want DuplicateKeyError", err)
	}
	dupErr = err.(*DuplicateKeyError)
	if dupErr.Collection != "ML" {
		t.Errorf("DuplicateKeyError.Collection = %q, want %q", dupErr.Collection, "ML")
	}

	all, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 1 {
		t.Errorf("ListAll() returned %d records, want exactly 1", len(all))
	}
}

func TestFieldPolicyDedup(t *testing.T) {
	s := openTestStore(t, PolicyFields)

	mlID, _ := s.EnsureCollection("ML")
	csID, _ := s.EnsureCollection("CS")

	if _, err := s.Insert(mlID, testMeta, "/papers/a.pdf", ""); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// Same fields, different case, same collection: rejected.
	shouted := testMeta
	shouted.Title = "DEEP LEARNING"
	shouted.Journal = "NATURE"
	_, err := s.Insert(mlID, shouted, "/papers/c.pdf", "")
	if !IsDuplicateKey(err) {
		t.Fatalf("Insert() same fields error = %v, want DuplicateKeyError", err)
	}
	if err.(*DuplicateKeyError).Collection != "ML" {
		t.Errorf("DuplicateKeyError.Collection = %q, want ML", err.(*DuplicateKeyError).Collection)
	}

	// Same fields in a different collection: allowed under this policy.
	if _, err := s.Insert(csID, testMeta, "/papers/d.pdf", ""); err != nil {
		t.Fatalf("Insert() into other collection error = %v", err)
	}

	// Same path anywhere: rejected.
	other := Metadata{Year: 1999, Journal: "Science", Title: "Another", Authors: "Carol"}
	_, err = s.Insert(csID, other, "/papers/a.pdf", "")
	if !IsDuplicateKey(err) {
		t.Fatalf("Insert() duplicate path error = %v, want DuplicateKeyError", err)
	}
}

func TestListAllOrdering(t *testing.T) {
	s := openTestStore(t, PolicyContent)

	zID, _ := s.EnsureCollection("Zoology")
	aID, _ := s.EnsureCollection("Algebra")

	s.Insert(zID, Metadata{Title: "Z1", Year: 2001}, "/z1.pdf", "h1")
	s.Insert(aID, Metadata{Title: "A1", Year: 2002}, "/a1.pdf", "h2")
	s.Insert(aID, Metadata{Title: "A2", Year: 2003}, "/a2.pdf", "h3")

	all, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListAll() returned %d records, want 3", len(all))
	}

	wantOrder := []string{"A1", "A2", "Z1"}
	for i, title := range wantOrder {
		if all[i].Title != title {
			t.Errorf("ListAll()[%d].Title = %q, want %q", i, all[i].Title, title)
		}
	}
}

func TestListByCollectionIsolation(t *testing.T) {
	s := openTestStore(t, PolicyContent)

	mlID, _ := s.EnsureCollection("ML")
	csID, _ := s.EnsureCollection("CS")
	s.Insert(mlID, Metadata{Title: "ML paper", Year: 2020}, "/ml.pdf", "h1")
	s.Insert(csID, Metadata{Title: "CS paper", Year: 2021}, "/cs.pdf", "h2")

	ml, err := s.ListByCollection("ML")
	if err != nil {
		t.Fatalf("ListByCollection() error = %v", err)
	}
	if len(ml) != 1 {
		t.Fatalf("ListByCollection(ML) returned %d records, want 1", len(ml))
	}
	for _, r := range ml {
		if r.Collection != "ML" {
			t.Errorf("ListByCollection(ML) leaked record from %q", r.Collection)
		}
	}

	// Absent collection: empty result, not an error.
	empty, err := s.ListByCollection("DoesNotExist")
	if err != nil {
		t.Fatalf("ListByCollection(absent) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListByCollection(absent) returned %d records, want 0", len(empty))
	}
}

func TestRecordRoundTrip(t *testing.T) {
	s := openTestStore(t, PolicyContent)

	id, _ := s.EnsureCollection("ML")
	recID, err := s.Insert(id, testMeta, "/papers/a.pdf", "hash1")
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	records, err := s.ListByCollection("ML")
	if err != nil {
		t.Fatalf("ListByCollection() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	r := records[0]
	if r.ID != recID {
		t.Errorf("ID = %d, want %d", r.ID, recID)
	}
	if r.Metadata != testMeta {
		t.Errorf("Metadata = %+v, want %+v", r.Metadata, testMeta)
	}
	if r.FilePath != "/papers/a.pdf" || r.ContentHash != "hash1" {
		t.Errorf("path/hash = %q/%q, want /papers/a.pdf/hash1", r.FilePath, r.ContentHash)
	}
}
