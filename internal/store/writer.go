package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteView serializes a view document as a complete replacement of any
// prior document with the same name. Non-ASCII text is written verbatim
// and output is indented for human-diffable results.
func (s *Store) WriteView(name string, view any) error {
	if err := os.MkdirAll(s.AggregatedDir(), 0o755); err != nil {
		return fmt.Errorf("creating aggregated directory: %w", err)
	}

	data, err := marshalIndented(view)
	if err != nil {
		return fmt.Errorf("encoding view %s: %w", name, err)
	}

	path := filepath.Join(s.AggregatedDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing view %s: %w", name, err)
	}
	return nil
}

// WriteDigest writes the markdown digest next to the JSON views.
func (s *Store) WriteDigest(markdown string) error {
	if err := os.MkdirAll(s.AggregatedDir(), 0o755); err != nil {
		return fmt.Errorf("creating aggregated directory: %w", err)
	}
	path := filepath.Join(s.AggregatedDir(), "digest.md")
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("writing digest: %w", err)
	}
	return nil
}

// ReadDigest returns the markdown digest, or "" when none exists.
func (s *Store) ReadDigest() string {
	data, err := os.ReadFile(filepath.Join(s.AggregatedDir(), "digest.md"))
	if err != nil {
		return ""
	}
	return string(data)
}

// marshalIndented encodes v with two-space indentation and without HTML
// escaping, so Korean and other non-Latin text survives round trips intact.
func marshalIndented(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
