// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/biodata-hub/internal/store"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

func testSetup(t *testing.T) (*store.Store, types.IngestConfig) {
	t.Helper()
	tmpDir := t.TempDir()

	metaDir := filepath.Join(tmpDir, "metadata")
	if err := os.MkdirAll(metaDir, 0o755); err != nil {
		t.Fatal(err)
	}

	st, err := store.NewStore(types.StoreConfig{DataDir: tmpDir})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	return st, types.IngestConfig{
		MetadataDir: metaDir,
		UsersFile:   filepath.Join(tmpDir, "users.json"),
	}
}

func writeMetadata(t *testing.T, cfg types.IngestConfig, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(cfg.MetadataDir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const gwasDoc = `[
	{"dataset": "gwas_diversity"},
	{"Column2": "Name"},
	{"dataset": "gwas_diversity", "Column2": "GWAS Diversity Study",
	 "citation": "A. Smith", "Column12": "2023"}
]`

func TestRunMigratesDocument(t *testing.T) {
	st, cfg := testSetup(t)
	writeMetadata(t, cfg, "gwas_diversity.json", gwasDoc)

	var out bytes.Buffer
	summary, err := Run(context.Background(), st, cfg, &out)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Migrated != 1 || summary.Skipped != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	rec, err := st.GetBySlug(context.Background(), "gwas_diversity_study")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Title != "GWAS Diversity Study" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.CategoryName != "Genetics" {
		t.Errorf("CategoryName = %q", rec.CategoryName)
	}
	wantTags := []string{"GWAS", "Population Genetics", "Ancestry", "2023"}
	if !reflect.DeepEqual(rec.Tags, wantTags) {
		t.Errorf("Tags = %v, want %v", rec.Tags, wantTags)
	}
	if rec.Year != 2023 {
		t.Errorf("Year = %d", rec.Year)
	}
	if !reflect.DeepEqual(rec.Authors, []string{"A. Smith"}) {
		t.Errorf("Authors = %v", rec.Authors)
	}
	if rec.Abstract != fallbackAbstract {
		t.Errorf("Abstract = %q, want the fallback text", rec.Abstract)
	}

	// Category pass created the inferred category.
	names, err := st.DistinctCategories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"Genetics"}) {
		t.Errorf("categories = %v", names)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	st, cfg := testSetup(t)
	writeMetadata(t, cfg, "gwas_diversity.json", gwasDoc)

	ctx := context.Background()
	first, err := Run(ctx, st, cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(ctx, st, cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	if first.Migrated != 1 {
		t.Errorf("first run migrated %d", first.Migrated)
	}
	if second.Migrated != 0 || second.Skipped != 1 {
		t.Errorf("second run = %+v, want a silent skip", second)
	}

	records, err := st.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records after two runs, want 1", len(records))
	}
}

func TestRunSkipsMalformedAndTemplates(t *testing.T) {
	st, cfg := testSetup(t)
	writeMetadata(t, cfg, "too_short.json", `[{"dataset": "x"}, {"Column2": "Name"}]`)
	writeMetadata(t, cfg, "not_json.json", `{{{`)
	writeMetadata(t, cfg, "template.json", gwasDoc)
	writeMetadata(t, cfg, "gwas_template.json", gwasDoc)
	writeMetadata(t, cfg, "notes.txt", "ignored")

	var out bytes.Buffer
	summary, err := Run(context.Background(), st, cfg, &out)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Migrated != 0 {
		t.Errorf("migrated = %d, want 0", summary.Migrated)
	}
	if summary.Failed != 2 {
		t.Errorf("failed = %d, want 2 (short doc and bad JSON)", summary.Failed)
	}
	if !strings.Contains(out.String(), "failed  too_short") {
		t.Errorf("output missing warning for malformed doc:\n%s", out.String())
	}

	records, err := st.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("malformed input reached the store: %d records", len(records))
	}
}

func TestRunTitleFallsBackToIdentifier(t *testing.T) {
	st, cfg := testSetup(t)
	// No title in any aliased slot.
	writeMetadata(t, cfg, "pbw_resistance_2014.json", `[
		{"dataset": "pbw_resistance_2014"},
		{"Column2": "Name"},
		{"dataset": "pbw_resistance_2014", "description": "Field monitoring of pink bollworm."}
	]`)

	_, err := Run(context.Background(), st, cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}

	rec, err := st.GetBySlug(context.Background(), "pbw_resistance_2014")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Title != "pbw resistance 2014" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.CategoryName != "Agriculture" {
		t.Errorf("CategoryName = %q", rec.CategoryName)
	}
	if rec.Abstract != "Field monitoring of pink bollworm." {
		t.Errorf("Abstract = %q", rec.Abstract)
	}
}

func TestRunMigratesUsers(t *testing.T) {
	st, cfg := testSetup(t)

	users := []types.User{
		{ID: "u1", Email: "admin@example.org", PasswordHash: "h", Role: "admin"},
		{Email: "reader@example.org", PasswordHash: "h2"},
	}
	data, err := json.Marshal(users)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.UsersFile, data, 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := Run(context.Background(), st, cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.UsersMigrated != 2 {
		t.Errorf("UsersMigrated = %d", summary.UsersMigrated)
	}

	got, err := st.GetUserByEmail(context.Background(), "reader@example.org")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID == "" {
		t.Error("user without a legacy id did not receive a generated one")
	}
	if got.Role != "user" {
		t.Errorf("Role = %q, want the user default", got.Role)
	}

	// Second run skips both.
	summary, err = Run(context.Background(), st, cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.UsersMigrated != 0 {
		t.Errorf("second run migrated %d users", summary.UsersMigrated)
	}
}

func TestSplitAuthors(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"A. Smith, B. Jones", []string{"A. Smith", "B. Jones"}},
		{"  A. Smith ,, ,B. Jones ", []string{"A. Smith", "B. Jones"}},
		{"", []string{}},
		{"Solo Author", []string{"Solo Author"}},
	}
	for _, tt := range tests {
		if got := splitAuthors(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitAuthors(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"2023", 2023},
		{" 2023 ", 2023},
		{"2014-2016", 2014},
		{"circa 2000", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := leadingInt(tt.s); got != tt.want {
			t.Errorf("leadingInt(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}
