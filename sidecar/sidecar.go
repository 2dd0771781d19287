// Package sidecar persists selection records as hidden files inside the
// directories they describe.
//
// A record is stored as ".fileselection" in the selection root. The first
// line is the description, every following line is one selected path,
// relative to the root with forward slashes:
//
//	files for anonymization batch 7
//	subdir/one.txt
//	subdir/two.txt
//
// The description occupies exactly the first line. Newlines in it are
// rejected rather than escaped, a deliberate restriction that keeps the
// format parseable by a plain line split in any language.
//
// Writes go through a uniquely named temp file and a rename, so readers
// never observe a partial record and concurrent writers settle on
// last-write-wins. Older releases stored the record as a YAML document;
// Load rejects those with ErrLegacyFormat and Migrate converts them in
// place.
package sidecar

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/zhubert/fileselect/logger"
	"github.com/zhubert/fileselect/selection"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the record file inside a selection root.
const FileName = ".fileselection"

// Locate returns the path the record file for root would live at.
// It does not touch the disk.
func Locate(root string) string {
	return filepath.Join(root, FileName)
}

// Exists reports whether a record file is present in root.
func Exists(root string) bool {
	_, err := os.Stat(Locate(root))
	return err == nil
}

// Save writes the record to its root, replacing any previous record file.
// The root directory must already exist; Save never creates it.
func Save(rec *selection.Record) error {
	root := rec.Root()

	if strings.ContainsAny(rec.Description(), "\r\n") {
		return &RecordError{Op: "save", Root: root, Err: ErrMultilineDescription}
	}

	if err := writeAtomic(Locate(root), encode(rec)); err != nil {
		return &RecordError{Op: "save", Root: root, Err: fmt.Errorf("%w: %v", ErrWrite, err)}
	}

	logger.WithComponent("sidecar").Info("selection record saved",
		"root", root, "paths", rec.Len())
	return nil
}

// Load reads the record stored in root. The stored paths are validated the
// same way Add validates fresh ones, so a record whose files have vanished
// or escaped the root does not load.
func Load(root string) (*selection.Record, error) {
	rec, err := selection.New(root)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(Locate(rec.Root()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &RecordError{Op: "load", Root: rec.Root(), Err: ErrNotFound}
		}
		return nil, &RecordError{Op: "load", Root: rec.Root(), Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}

	if isLegacyFormat(data) {
		return nil, &RecordError{Op: "load", Root: rec.Root(), Err: ErrLegacyFormat}
	}

	description, relPaths, err := parse(data)
	if err != nil {
		return nil, &RecordError{Op: "load", Root: rec.Root(), Err: err}
	}

	rec.SetDescription(description)
	if _, err := rec.Add(relPaths...); err != nil {
		return nil, &RecordError{Op: "load", Root: rec.Root(), Err: err}
	}

	logger.WithComponent("sidecar").Debug("selection record loaded",
		"root", rec.Root(), "paths", rec.Len())
	return rec, nil
}

// encode renders the record in the line format: the description line
// followed by one forward-slash relative path per line.
func encode(rec *selection.Record) []byte {
	var b strings.Builder
	b.WriteString(rec.Description())
	b.WriteByte('\n')
	for _, rel := range rec.Paths() {
		b.WriteString(rel)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// parse splits record data into the description and the stored paths.
// Blank path lines are ignored and trailing carriage returns are stripped,
// so hand-edited files survive. Absolute path lines are a format violation.
func parse(data []byte) (description string, relPaths []string, err error) {
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: record file is empty", ErrCorrupt)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", nil, fmt.Errorf("%w: record contains binary data", ErrCorrupt)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	description = strings.TrimSuffix(lines[0], "\r")

	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") || filepath.IsAbs(filepath.FromSlash(line)) {
			return "", nil, fmt.Errorf("%w: absolute path in record: %s", ErrCorrupt, line)
		}
		relPaths = append(relPaths, line)
	}
	return description, relPaths, nil
}

// writeAtomic writes data to a uniquely named temp file next to target and
// renames it into place. The temp file lands in the same directory so the
// rename stays on one filesystem.
func writeAtomic(target string, data []byte) error {
	tmp := target + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// isLegacyFormat detects the YAML layout written by older releases.
// Legacy records are a YAML mapping with an "id" key and the selected paths
// under "selected_paths" (or "paths" in the oldest revision). The current
// line format never parses as such a mapping.
func isLegacyFormat(data []byte) bool {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return false
	}

	if _, hasID := raw["id"]; !hasID {
		return false
	}
	if _, ok := raw["selected_paths"]; ok {
		return true
	}
	if _, ok := raw["paths"]; ok {
		return true
	}
	return false
}
