package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownPolicy is returned when Open receives an unrecognized policy name.
var ErrUnknownPolicy = errors.New("unknown duplicate policy")

// DuplicateKeyError reports that inserting a record would violate the active
// duplicate policy. It always carries the name of the collection the existing
// record lives in, so callers can report where the duplicate was found.
type DuplicateKeyError struct {
	CollectionID int64
	Collection   string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate literature already in collection %q", e.Collection)
}

// IsDuplicateKey returns true if the error indicates a duplicate record.
func IsDuplicateKey(err error) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup)
}
