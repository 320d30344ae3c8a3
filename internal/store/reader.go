package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LoadAnalyzedItems loads every analyzed item document from the analyzed
// directory. A file may hold a single item or an array of items. Malformed
// or unreadable files are logged and skipped; one bad record never aborts
// the batch. An absent or empty directory yields an empty slice, not an
// error: callers treat that as "no work to do".
func (s *Store) LoadAnalyzedItems() ([]AnalyzedItem, error) {
	entries, err := os.ReadDir(s.AnalyzedDir())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading analyzed directory: %w", err)
	}

	var items []AnalyzedItem
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(s.AnalyzedDir(), entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping unreadable item file %s: %v", entry.Name(), err)
			continue
		}

		parsed, err := decodeItems(data)
		if err != nil {
			log.Printf("Skipping malformed item file %s: %v", entry.Name(), err)
			continue
		}
		items = append(items, parsed...)
	}

	return items, nil
}

// decodeItems decodes a document holding either one item or an array of items.
func decodeItems(data []byte) ([]AnalyzedItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if trimmed[0] == '[' {
		var items []AnalyzedItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		for i := range items {
			items[i].normalize()
		}
		return items, nil
	}

	var item AnalyzedItem
	if err := json.Unmarshal(trimmed, &item); err != nil {
		return nil, err
	}
	item.normalize()
	return []AnalyzedItem{item}, nil
}
