// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/biodata-hub/pkg/types"
)

// Export holds the full store contents for the export surface.
type Export struct {
	Research   []*types.ResearchRecord `json:"research" yaml:"research"`
	Categories []types.Category        `json:"categories" yaml:"categories"`
}

// ExportYAML writes the store contents to dataDir/index/export.yaml.
func (s *Store) ExportYAML(ctx context.Context) error {
	export, err := s.exportContents(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(export)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dataDir, indexDir, "export.yaml"), data, 0o644)
}

// ExportJSON writes the store contents to dataDir/index/export.json.
func (s *Store) ExportJSON(ctx context.Context) error {
	export, err := s.exportContents(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(filepath.Join(s.dataDir, indexDir, "export.json"), data, 0o644)
}

func (s *Store) exportContents(ctx context.Context) (*Export, error) {
	research, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying research for export: %w", err)
	}
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying categories for export: %w", err)
	}
	return &Export{Research: research, Categories: categories}, nil
}
