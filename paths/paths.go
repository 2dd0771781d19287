// Package paths provides centralized path resolution for fileselect's own
// state files. Selection records always live inside the selection root they
// describe; only transient library state (log files) lands here.
//
// The XDG Base Directory Specification is honored for that state:
//
//   - State (XDG_STATE_HOME): logs/ — transient log files
//
// Resolution order:
//  1. If ~/.fileselect/ exists → use legacy flat layout (everything under ~/.fileselect/)
//  2. If XDG_STATE_HOME is set → use XDG_STATE_HOME/fileselect
//  3. Fresh install, no XDG var → default to ~/.fileselect/
package paths

import (
	"os"
	"path/filepath"
	"sync"
)

var (
	mu       sync.Mutex
	resolved *resolvedPaths
)

type resolvedPaths struct {
	stateDir string
	legacy   bool
}

// resolve computes the path layout once and caches it.
func resolve() (*resolvedPaths, error) {
	mu.Lock()
	defer mu.Unlock()

	if resolved != nil {
		return resolved, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	legacyDir := filepath.Join(home, ".fileselect")

	// 1. If ~/.fileselect/ exists, use legacy layout
	if info, err := os.Stat(legacyDir); err == nil && info.IsDir() {
		resolved = &resolvedPaths{
			stateDir: legacyDir,
			legacy:   true,
		}
		return resolved, nil
	}

	// 2. Check the XDG env var
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		resolved = &resolvedPaths{
			stateDir: filepath.Join(xdgState, "fileselect"),
			legacy:   false,
		}
		return resolved, nil
	}

	// 3. Fresh install, no XDG — default to legacy
	resolved = &resolvedPaths{
		stateDir: legacyDir,
		legacy:   true,
	}
	return resolved, nil
}

// StateDir returns the directory for runtime state and logs.
func StateDir() (string, error) {
	r, err := resolve()
	if err != nil {
		return "", err
	}
	return r.stateDir, nil
}

// LogsDir returns the directory for log files.
func LogsDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs"), nil
}

// LogFilePath returns the full path to the default log file.
func LogFilePath() (string, error) {
	dir, err := LogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "fileselect.log"), nil
}

// IsLegacyLayout returns true if using the ~/.fileselect/ flat layout.
func IsLegacyLayout() bool {
	r, err := resolve()
	if err != nil {
		return true // assume legacy on error
	}
	return r.legacy
}

// Reset clears the cached path resolution. This is intended for testing only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	resolved = nil
}
