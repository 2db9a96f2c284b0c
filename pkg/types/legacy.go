// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LegacyDocument is the raw ingestion unit: an ordered sequence of
// loosely-typed rows whose column names (Column2..Column23) carry no
// semantics on their own. Row 0 is a dataset marker, row 1 a header row,
// row 2 the main entry; rows from index 2 that carry a "columns" key are
// column-definition rows.
type LegacyDocument []map[string]any

// ColumnDef describes one data column of a legacy dataset.
type ColumnDef struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Unit        string `json:"unit,omitempty" yaml:"unit,omitempty"`
	IsProcessed bool   `json:"is_processed" yaml:"is_processed"`
}

// ParsedRecord is the intermediate extraction from a LegacyDocument. It is
// recomputed per run and never persisted.
type ParsedRecord struct {
	Dataset     string      `json:"dataset"`
	Title       string      `json:"title"`
	SourceName  string      `json:"source_name"`
	SourceURL   string      `json:"source_url"`
	Description string      `json:"description"`
	LastUpdated string      `json:"last_updated"`
	RawDataFile string      `json:"raw_data_file"`
	AuthorsRaw  string      `json:"authors"`
	Journal     string      `json:"journal"`
	Year        string      `json:"year"`
	DOI         string      `json:"doi"`
	Columns     []ColumnDef `json:"columns,omitempty"`
}
