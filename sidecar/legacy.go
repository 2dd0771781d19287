package sidecar

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/zhubert/fileselect/logger"
	"github.com/zhubert/fileselect/selection"
	"gopkg.in/yaml.v3"
)

// legacyBackupSuffix is appended to the record file name when Migrate keeps
// the original YAML bytes around.
const legacyBackupSuffix = ".legacy"

// legacyRecord mirrors the YAML document written by older releases.
type legacyRecord struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	// Legacy files list paths under selected_paths; the oldest revision
	// used paths. Only one of the two is ever populated.
	SelectedPaths []string `yaml:"selected_paths"`
	Paths         []string `yaml:"paths,omitempty"`
}

// LoadLegacy reads a record stored in the old YAML layout. The stored paths
// go through the same validation as Add, just like Load.
func LoadLegacy(root string) (*selection.Record, error) {
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

	var doc legacyRecord
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &RecordError{Op: "load", Root: rec.Root(), Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
	}
	if doc.ID == "" {
		return nil, &RecordError{Op: "load", Root: rec.Root(), Err: fmt.Errorf("%w: missing id field", ErrCorrupt)}
	}

	src := doc.SelectedPaths
	if src == nil {
		src = doc.Paths
	}

	// Hand-edited files sometimes carry null or empty entries; skip them
	relPaths := make([]string, 0, len(src))
	for _, p := range src {
		if p == "" {
			continue
		}
		relPaths = append(relPaths, p)
	}

	rec.SetDescription(doc.Description)
	if _, err := rec.Add(relPaths...); err != nil {
		return nil, &RecordError{Op: "load", Root: rec.Root(), Err: err}
	}

	logger.WithComponent("sidecar").Debug("legacy selection record loaded",
		"root", rec.Root(), "paths", rec.Len())
	return rec, nil
}

// Migrate converts a legacy YAML record to the current line format. The
// original YAML bytes are kept next to the record with a ".legacy" suffix
// so nothing is lost if the conversion needs to be unwound.
func Migrate(root string) (*selection.Record, error) {
	log := logger.WithComponent("sidecar")

	rec, err := LoadLegacy(root)
	if err != nil {
		return nil, err
	}

	// The line format keeps the description on a single line; flatten any
	// newlines the YAML form allowed.
	if flat := flattenDescription(rec.Description()); flat != rec.Description() {
		log.Warn("multi-line description flattened during migration", "root", rec.Root())
		rec.SetDescription(flat)
	}

	src := Locate(rec.Root())
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, &RecordError{Op: "migrate", Root: rec.Root(), Err: fmt.Errorf("%w: %v", ErrWrite, err)}
	}
	if err := os.WriteFile(src+legacyBackupSuffix, data, 0644); err != nil {
		return nil, &RecordError{Op: "migrate", Root: rec.Root(), Err: fmt.Errorf("%w: %v", ErrWrite, err)}
	}

	if err := Save(rec); err != nil {
		return nil, err
	}

	log.Info("legacy selection record migrated", "root", rec.Root(), "paths", rec.Len())
	return rec, nil
}

// SaveLegacy writes the record in the YAML layout understood by older
// consumers, replacing any record file in the root. A fresh id is generated
// for the exported document.
func SaveLegacy(rec *selection.Record) error {
	doc := legacyRecord{
		ID:            uuid.NewString(),
		Description:   rec.Description(),
		SelectedPaths: rec.Paths(),
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return &RecordError{Op: "export", Root: rec.Root(), Err: fmt.Errorf("%w: %v", ErrWrite, err)}
	}

	if err := writeAtomic(Locate(rec.Root()), data); err != nil {
		return &RecordError{Op: "export", Root: rec.Root(), Err: fmt.Errorf("%w: %v", ErrWrite, err)}
	}

	logger.WithComponent("sidecar").Info("selection record exported as legacy YAML",
		"root", rec.Root(), "paths", rec.Len())
	return nil
}

// flattenDescription joins a multi-line description into one line.
func flattenDescription(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}
