package catalog

// Policy names accepted by Open.
const (
	PolicyContent = "content"
	PolicyFields  = "fields"
)

// Policy decides how duplicate literature is detected. The two
// implementations trade off differently: the content policy hashes document
// text and can reject known content before the expensive extraction call;
// the field policy needs no hashing but can only check after extraction.
type Policy interface {
	// Name returns the policy name as accepted by Open.
	Name() string

	// NeedsFingerprint reports whether document content must be hashed
	// before extraction. When true the pipeline runs PreCheck first.
	NeedsFingerprint() bool

	// PreCheck looks up a content fingerprint before extraction. Returns
	// nil when no duplicate exists or the policy has no pre-check.
	PreCheck(s *Store, hash string) (*Duplicate, error)

	// PersistCheck looks for a duplicate after extraction, immediately
	// before insert. Returns nil when the record is safe to insert.
	PersistCheck(s *Store, collectionID int64, meta Metadata, path string) (*Duplicate, error)

	// indexes returns the policy-specific uniqueness DDL.
	indexes() []string
}

// contentPolicy enforces global uniqueness of the content fingerprint:
// identical text cannot be catalogued twice under any collection name.
type contentPolicy struct{}

func (contentPolicy) Name() string           { return PolicyContent }
func (contentPolicy) NeedsFingerprint() bool { return true }

func (contentPolicy) PreCheck(s *Store, hash string) (*Duplicate, error) {
	return s.FindByHash(hash)
}

func (contentPolicy) PersistCheck(s *Store, collectionID int64, meta Metadata, path string) (*Duplicate, error) {
	// The hash pre-check is authoritative; the unique index backstops it.
	return nil, nil
}

func (contentPolicy) indexes() []string {
	return []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_literatures_hash
			ON literatures(content_hash)`,
	}
}

// fieldPolicy enforces per-collection uniqueness of (title, year, journal),
// case-insensitively, plus global uniqueness of the stored file path. No
// content hash is computed, so every ingestion pays the extraction call.
type fieldPolicy struct{}

func (fieldPolicy) Name() string           { return PolicyFields }
func (fieldPolicy) NeedsFingerprint() bool { return false }

func (fieldPolicy) PreCheck(s *Store, hash string) (*Duplicate, error) {
	return nil, nil
}

func (fieldPolicy) PersistCheck(s *Store, collectionID int64, meta Metadata, path string) (*Duplicate, error) {
	if dup, err := s.FindByFields(collectionID, meta); dup != nil || err != nil {
		return dup, err
	}
	return s.FindByPath(path)
}

func (fieldPolicy) indexes() []string {
	return []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_literatures_fields
			ON literatures(collection_id, lower(title), year, lower(journal))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_literatures_path
			ON literatures(file_path)`,
	}
}

// policyByName maps a policy name to its implementation.
func policyByName(name string) (Policy, bool) {
	switch name {
	case PolicyContent:
		return contentPolicy{}, true
	case PolicyFields:
		return fieldPolicy{}, true
	}
	return nil, false
}
