package selection

import "errors"

// Sentinel errors for selection failures. Callers match them with errors.Is.
var (
	// ErrInvalidRoot means the requested root does not exist or is not a directory.
	ErrInvalidRoot = errors.New("root does not exist or is not a directory")

	// ErrPathNotExists means a path could not be verified to exist on disk.
	ErrPathNotExists = errors.New("path does not exist on disk")

	// ErrOutsideRoot means a path resolves to the root itself or to somewhere
	// outside the root's directory tree.
	ErrOutsideRoot = errors.New("path is outside the selection root")
)

// PathError reports a failure for a specific path during a selection operation.
// It wraps one of the sentinel errors above so callers can test the kind with
// errors.Is while still seeing which path failed.
type PathError struct {
	Op   string // operation that failed: "select", "add", "contains"
	Path string // the path as the caller supplied it
	Err  error  // underlying sentinel or cause
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error {
	return e.Err
}
