// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package legacy decodes the column-numbered metadata format produced by the
// original data-entry process. A document is an ordered array of rows; row 0
// is a dataset marker, row 1 a header row, row 2 the main entry. The column
// names (Column2..Column23) gained meaning only by position, and that
// meaning drifted between dataset generations, so every field is resolved
// through an explicit alias chain.
package legacy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/biodata-hub/pkg/apperrors"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// aliasChains maps each ParsedRecord field to its legacy keys in priority
// order: the first key holding a non-empty value wins. The ordering is a
// contract with the legacy files; reordering changes which file generation
// resolves correctly.
var aliasChains = map[string][]string{
	"dataset":       {"dataset"},
	"title":         {"Column2", "Column4", "title"},
	"source_name":   {"Column3", "Column2"},
	"source_url":    {"Column4", "Column3"},
	"description":   {"description", "Column5"},
	"last_updated":  {"last_updated", "Column6"},
	"raw_data_file": {"raw_data_file", "Column7"},
	"authors":       {"citation", "Column9"},
	"journal":       {"Column11", "Column15"},
	"year":          {"Column12", "Column16"},
	"doi":           {"Column13", "Column17"},
}

// Column-definition rows exist in two numbering generations; later files
// shift the definition columns by four. Both are resolved side by side.
var columnDefChains = map[string][]string{
	"type":         {"Column16", "Column20"},
	"description":  {"Column17", "Column21"},
	"unit":         {"Column18", "Column22"},
	"is_processed": {"Column19", "Column23"},
}

// Parse extracts a ParsedRecord from a legacy document. A document with
// fewer than three rows is rejected with ErrMalformedDocument; callers skip
// the file and continue the batch. Parse performs no I/O.
//
// Rows at index >= 2 that carry a "columns" key are collected as column
// definitions in array order. Index 2 always feeds the main-entry field
// extraction, even when it is itself a column row; in that case the main
// fields come up empty and the columns are still collected. The source
// format is ambiguous here and the behavior is kept as observed.
func Parse(doc types.LegacyDocument) (*types.ParsedRecord, error) {
	if len(doc) < 3 {
		return nil, fmt.Errorf("%w: %d rows, need at least 3", apperrors.ErrMalformedDocument, len(doc))
	}

	main := doc[2]
	if main == nil {
		main = map[string]any{}
	}

	p := &types.ParsedRecord{
		Dataset:     resolve(main, aliasChains["dataset"]),
		Title:       resolve(main, aliasChains["title"]),
		SourceName:  resolve(main, aliasChains["source_name"]),
		SourceURL:   resolve(main, aliasChains["source_url"]),
		Description: resolve(main, aliasChains["description"]),
		LastUpdated: resolve(main, aliasChains["last_updated"]),
		RawDataFile: resolve(main, aliasChains["raw_data_file"]),
		AuthorsRaw:  resolve(main, aliasChains["authors"]),
		Journal:     resolve(main, aliasChains["journal"]),
		Year:        resolve(main, aliasChains["year"]),
		DOI:         resolve(main, aliasChains["doi"]),
	}

	for _, row := range doc[2:] {
		if _, ok := row["columns"]; !ok {
			continue
		}
		p.Columns = append(p.Columns, types.ColumnDef{
			Name:        stringify(row["columns"]),
			Type:        resolve(row, columnDefChains["type"]),
			Description: resolve(row, columnDefChains["description"]),
			Unit:        resolve(row, columnDefChains["unit"]),
			IsProcessed: truthy(firstPresent(row, columnDefChains["is_processed"])),
		})
	}

	return p, nil
}

// resolve returns the first non-empty value among the aliased keys.
func resolve(row map[string]any, keys []string) string {
	return stringify(firstPresent(row, keys))
}

// firstPresent walks keys in order and returns the first truthy value.
// Empty strings, zero numbers, false, and nil all fall through, matching
// the loose presence test the legacy producer relied on.
func firstPresent(row map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := row[k]; ok && truthy(v) {
			return v
		}
	}
	return nil
}

// stringify renders a loosely-typed cell value. JSON numbers keep their
// integer form ("2023", not "2023.000000").
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		if t {
			return "true"
		}
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// truthy mirrors the original producer's presence test.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}
