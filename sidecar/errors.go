package sidecar

import (
	"errors"
	"fmt"
)

// Sentinel errors for sidecar failures. Callers match them with errors.Is.
var (
	// ErrNotFound means no selection record exists in the root.
	ErrNotFound = errors.New("no selection record found")

	// ErrCorrupt means a record file exists but cannot be parsed.
	ErrCorrupt = errors.New("selection record is corrupt")

	// ErrWrite means a record could not be written to disk.
	ErrWrite = errors.New("selection record could not be written")

	// ErrLegacyFormat means the record uses the old YAML layout. It matches
	// ErrCorrupt under errors.Is; convert the file with Migrate.
	ErrLegacyFormat = fmt.Errorf("%w: record uses the legacy YAML format (convert it with Migrate)", ErrCorrupt)

	// ErrMultilineDescription means the description cannot be represented in
	// the line format. It matches ErrWrite under errors.Is.
	ErrMultilineDescription = fmt.Errorf("%w: description must be a single line", ErrWrite)
)

// RecordError reports a failure for a record operation against a root.
// It wraps the underlying error so sentinel matching keeps working.
type RecordError struct {
	Op   string // "load", "save", "migrate", "export"
	Root string
	Err  error
}

func (e *RecordError) Error() string {
	return e.Op + " selection record in " + e.Root + ": " + e.Err.Error()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
