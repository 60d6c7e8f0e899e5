// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/jftlv/internal/parse"
)

// DefaultExportPath returns the export file path under the store directory
// for the given format ("yaml" or "json").
func (s *Store) DefaultExportPath(format string) string {
	return filepath.Join(s.dir, "export."+format)
}

// ExportYAML writes every stored entry to path as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	entries, err := s.All(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every stored entry to path in the parser's JSON layout.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	entries, err := s.All(ctx)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	var buf bytes.Buffer
	if err := parse.WriteJSON(&buf, entries); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
