package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store reads analyzed item documents and writes aggregated view documents
// under a single data directory:
//
//	<dataDir>/analyzed/    one JSON document (item or array) per file
//	<dataDir>/aggregated/  stats.json, trends.json, top-issues.json, digest.md
type Store struct {
	dataDir string
}

// New creates a Store rooted at dataDir.
func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// AnalyzedDir returns the directory holding analyzed item documents.
func (s *Store) AnalyzedDir() string {
	return filepath.Join(s.dataDir, "analyzed")
}

// AggregatedDir returns the directory holding generated views.
func (s *Store) AggregatedDir() string {
	return filepath.Join(s.dataDir, "aggregated")
}

// WriteAnalyzedItem persists a single analyzed item as its own JSON document.
// Used by the analyzer; the aggregation engine only reads these back.
func (s *Store) WriteAnalyzedItem(item *AnalyzedItem) error {
	if item.ID == "" {
		return fmt.Errorf("analyzed item has no id")
	}
	if err := os.MkdirAll(s.AnalyzedDir(), 0o755); err != nil {
		return fmt.Errorf("creating analyzed directory: %w", err)
	}
	data, err := marshalIndented(item)
	if err != nil {
		return fmt.Errorf("encoding item %s: %w", item.ID, err)
	}
	path := filepath.Join(s.AnalyzedDir(), item.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing item %s: %w", item.ID, err)
	}
	return nil
}

// ReadView returns the raw bytes of a previously written view document.
func (s *Store) ReadView(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.AggregatedDir(), name))
}
