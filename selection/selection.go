package selection

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zhubert/fileselect/logger"
)

// Record is an ordered selection of paths under a single root directory.
// Paths are stored relative to the root in forward-slash form, so a record
// describes the same files no matter which platform reads it.
type Record struct {
	root        string // absolute, symlinks resolved, host separators
	description string
	relPaths    []string // forward-slash relative paths in insertion order
}

// New creates an empty selection bound to root. The root must be an existing
// directory; it is normalized to an absolute path with symlinks resolved.
func New(root string) (*Record, error) {
	return NewWithDescription(root, "")
}

// NewWithDescription creates an empty selection bound to root with a
// human-readable description.
func NewWithDescription(root, description string) (*Record, error) {
	resolved, err := canonicalRoot(root)
	if err != nil {
		return nil, err
	}
	return &Record{
		root:        resolved,
		description: description,
	}, nil
}

// canonicalRoot normalizes root to an absolute, symlink-resolved directory path.
func canonicalRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", &PathError{Op: "select", Path: root, Err: fmt.Errorf("%w: %v", ErrInvalidRoot, err)}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &PathError{Op: "select", Path: root, Err: ErrInvalidRoot}
	}
	if !info.IsDir() {
		return "", &PathError{Op: "select", Path: root, Err: ErrInvalidRoot}
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &PathError{Op: "select", Path: root, Err: fmt.Errorf("%w: %v", ErrInvalidRoot, err)}
	}
	return resolved, nil
}

// Add validates the given paths and appends the new ones to the selection.
// Paths may be absolute, or relative in which case they are taken as relative
// to the root. Every path must exist on disk and resolve to a location inside
// the root; if any path fails, nothing is added and the record is unchanged.
// Duplicates are ignored, keeping the position of the first occurrence.
// Returns the updated relative path list.
func (r *Record) Add(inputs ...string) ([]string, error) {
	staged := make([]string, 0, len(inputs))
	for _, input := range inputs {
		rel, err := r.relativize("add", input)
		if err != nil {
			return nil, err
		}
		staged = append(staged, rel)
	}

	added := 0
	for _, rel := range staged {
		if r.contains(rel) {
			continue
		}
		r.relPaths = append(r.relPaths, rel)
		added++
	}

	logger.WithComponent("selection").Debug("paths added",
		"root", r.root, "requested", len(inputs), "added", added, "total", len(r.relPaths))
	return r.Paths(), nil
}

// Contains reports whether path is already part of the selection. The path
// goes through the same resolution as Add, so absolute and root-relative
// spellings of the same file agree. Paths that no longer exist or fall
// outside the root are simply not contained.
func (r *Record) Contains(path string) bool {
	rel, err := r.relativize("contains", path)
	if err != nil {
		return false
	}
	return r.contains(rel)
}

// relativize resolves a caller-supplied path to its canonical forward-slash
// form relative to the root.
func (r *Record) relativize(op, input string) (string, error) {
	var abs string
	if filepath.IsAbs(input) {
		abs = filepath.Clean(input)
	} else {
		abs = filepath.Join(r.root, filepath.FromSlash(input))
	}

	if _, err := os.Stat(abs); err != nil {
		if os.IsNotExist(err) {
			return "", &PathError{Op: op, Path: input, Err: ErrPathNotExists}
		}
		return "", &PathError{Op: op, Path: input, Err: fmt.Errorf("%w: %v", ErrPathNotExists, err)}
	}

	// Compare symlink-resolved paths so containment can't be spoofed by a
	// link that points outside the root.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", &PathError{Op: op, Path: input, Err: fmt.Errorf("%w: %v", ErrPathNotExists, err)}
	}

	rel, err := filepath.Rel(r.root, resolved)
	if err != nil {
		return "", &PathError{Op: op, Path: input, Err: ErrOutsideRoot}
	}
	if !isWithinRoot(rel) {
		return "", &PathError{Op: op, Path: input, Err: ErrOutsideRoot}
	}
	return filepath.ToSlash(rel), nil
}

// isWithinRoot reports whether a result of filepath.Rel stays inside the
// root. The root itself (".") does not count as inside.
func isWithinRoot(rel string) bool {
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (r *Record) contains(rel string) bool {
	for _, p := range r.relPaths {
		if p == rel {
			return true
		}
	}
	return false
}

// Paths returns a copy of the selected paths, relative to the root in
// forward-slash form, in insertion order.
func (r *Record) Paths() []string {
	out := make([]string, len(r.relPaths))
	copy(out, r.relPaths)
	return out
}

// AbsolutePaths returns the selected paths joined back onto the root, in host
// separators, in the same order as Paths.
func (r *Record) AbsolutePaths() []string {
	out := make([]string, len(r.relPaths))
	for i, rel := range r.relPaths {
		out[i] = filepath.Join(r.root, filepath.FromSlash(rel))
	}
	return out
}

// Len returns the number of selected paths.
func (r *Record) Len() int {
	return len(r.relPaths)
}

// Root returns the absolute root directory the selection is bound to.
func (r *Record) Root() string {
	return r.root
}

// Description returns the human-readable description.
func (r *Record) Description() string {
	return r.description
}

// SetDescription replaces the human-readable description.
func (r *Record) SetDescription(description string) {
	r.description = description
}
