// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pdiddy/biodata-hub/pkg/apperrors"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()
	s, err := NewStore(types.StoreConfig{DataDir: tmpDir})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, tmpDir
}

func sampleRecord(slugID, title string) *types.ResearchRecord {
	return &types.ResearchRecord{
		Slug:         slugID,
		Title:        title,
		Abstract:     "Ancestry distribution across study participants.",
		Authors:      []string{"A. Smith", "B. Jones"},
		Tags:         []string{"GWAS", "Population Genetics"},
		CategoryName: "Genetics",
		Year:         2023,
	}
}

func mustInsert(t *testing.T, s *Store, rec *types.ResearchRecord) {
	t.Helper()
	inserted, err := s.InsertResearch(context.Background(), rec, SkipOnConflict)
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatalf("record %s not inserted", rec.Slug)
	}
}

func TestInsertAndGet(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	rec := sampleRecord("gwas_diversity_study", "GWAS Diversity Study")
	mustInsert(t, s, rec)

	got, err := s.GetBySlug(ctx, "gwas_diversity_study")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != rec.Title || got.Abstract != rec.Abstract {
		t.Errorf("got %+v", got)
	}
	if !reflect.DeepEqual(got.Authors, rec.Authors) {
		t.Errorf("Authors = %v, want %v", got.Authors, rec.Authors)
	}
	if got.Year != 2023 {
		t.Errorf("Year = %d", got.Year)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not assigned")
	}
}

func TestGetBySlugNotFound(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.GetBySlug(context.Background(), "nope")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestConflictStrategies(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	mustInsert(t, s, sampleRecord("gwas_diversity_study", "GWAS Diversity Study"))

	// Skip strategy: no error, nothing written, original untouched.
	dup := sampleRecord("gwas_diversity_study", "A Different Title")
	inserted, err := s.InsertResearch(ctx, dup, SkipOnConflict)
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Error("duplicate slug was inserted under SkipOnConflict")
	}
	got, err := s.GetBySlug(ctx, "gwas_diversity_study")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "GWAS Diversity Study" {
		t.Errorf("existing record overwritten: Title = %q", got.Title)
	}

	// Reject strategy: surfaced as ErrConflict.
	_, err = s.InsertResearch(ctx, dup, RejectOnConflict)
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
}

func TestListOrdering(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	for _, slugID := range []string{"first", "second", "third"} {
		mustInsert(t, s, sampleRecord(slugID, slugID))
		time.Sleep(2 * time.Millisecond)
	}

	records, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records", len(records))
	}
	// Most recently created first.
	if records[0].Slug != "third" || records[2].Slug != "first" {
		t.Errorf("order = %s, %s, %s", records[0].Slug, records[1].Slug, records[2].Slug)
	}
}

func TestSearch(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	gwas := sampleRecord("gwas_diversity_study", "GWAS Diversity Study")
	mustInsert(t, s, gwas)

	costs := sampleRecord("genome_costs", "Genome Sequencing Costs")
	costs.Abstract = "Cost per genome over two decades."
	costs.Authors = []string{"C. Venter"}
	costs.Tags = []string{"Genome", "Sequencing"}
	mustInsert(t, s, costs)

	tests := []struct {
		name  string
		q     string
		slugs []string
	}{
		{"empty query returns nothing", "", []string{}},
		{"title match", "Diversity", []string{"gwas_diversity_study"}},
		{"case-insensitive", "dIvErSiTy", []string{"gwas_diversity_study"}},
		{"abstract match", "two decades", []string{"genome_costs"}},
		{"author match", "venter", []string{"genome_costs"}},
		{"tag match", "Population", []string{"gwas_diversity_study"}},
		{"no match", "plasmid", []string{}},
		{"quote does not match array syntax", `"`, []string{}},
		{"separator does not match array syntax", `","`, []string{}},
		{"value spanning separator does not match", "Genome\",\"Sequencing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Search(ctx, tt.q)
			if err != nil {
				t.Fatal(err)
			}
			got := make([]string, len(results))
			for i, r := range results {
				got[i] = r.Slug
			}
			if !reflect.DeepEqual(got, tt.slugs) {
				t.Errorf("Search(%q) = %v, want %v", tt.q, got, tt.slugs)
			}
		})
	}
}

func TestSearchLimit(t *testing.T) {
	tmpDir := t.TempDir()
	s, err := NewStore(types.StoreConfig{DataDir: tmpDir, SearchLimit: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	for _, slugID := range []string{"a", "b", "c"} {
		rec := sampleRecord(slugID, slugID)
		rec.Abstract = "shared abstract text"
		mustInsert(t, s, rec)
	}

	results, err := s.Search(ctx, "shared abstract")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want the configured cap of 2", len(results))
	}
}

func TestDistinctFacets(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	a := sampleRecord("a", "A")
	a.Authors = []string{"Zimmer", "Adams"}
	a.Tags = []string{"GWAS"}
	a.Year = 2019
	mustInsert(t, s, a)

	b := sampleRecord("b", "B")
	b.Authors = []string{"Adams"}
	b.Tags = []string{"Ancestry", "GWAS"}
	b.Year = 2023
	mustInsert(t, s, b)

	c := sampleRecord("c", "C")
	c.Year = 0
	mustInsert(t, s, c)

	years, err := s.DistinctYears(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(years, []string{"2023", "2019"}) {
		t.Errorf("years = %v", years)
	}

	authors, err := s.DistinctAuthors(ctx)
	if err != nil {
		t.Fatal(err)
	}
	// Ascending, deduplicated across records.
	want := []string{"A. Smith", "Adams", "B. Jones", "Zimmer"}
	if !reflect.DeepEqual(authors, want) {
		t.Errorf("authors = %v, want %v", authors, want)
	}

	tags, err := s.DistinctTags(ctx)
	if err != nil {
		t.Fatal(err)
	}
	wantTags := []string{"Ancestry", "GWAS", "Population Genetics"}
	if !reflect.DeepEqual(tags, wantTags) {
		t.Errorf("tags = %v, want %v", tags, wantTags)
	}
}

func TestCategories(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	created, err := s.EnsureCategory(ctx, "Genetics")
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("first EnsureCategory did not create")
	}

	created, err = s.EnsureCategory(ctx, "Genetics")
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("second EnsureCategory created a duplicate")
	}

	if _, err := s.EnsureCategory(ctx, ""); err != nil {
		t.Fatal(err)
	}

	names, err := s.DistinctCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"Biology", "Genetics"}) {
		t.Errorf("categories = %v", names)
	}

	categories, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range categories {
		if c.Icon != types.DefaultCategoryIcon {
			t.Errorf("category %s icon = %q", c.Name, c.Icon)
		}
	}
}

func TestResearchCategoryNames(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	a := sampleRecord("a", "A")
	a.CategoryName = "Genomics"
	mustInsert(t, s, a)

	b := sampleRecord("b", "B")
	b.CategoryName = ""
	mustInsert(t, s, b)

	names, err := s.ResearchCategoryNames(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, n := range names {
		got[n] = true
	}
	if !got["Genomics"] || !got["Biology"] {
		t.Errorf("names = %v, want Genomics and the Biology default", names)
	}
}

func TestUsers(t *testing.T) {
	s, _ := testStore(t)
	ctx := context.Background()

	u := types.User{ID: "u1", Email: "admin@example.org", PasswordHash: "x", Role: "admin"}
	created, err := s.InsertUserIfAbsent(ctx, u)
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Error("user not created")
	}

	created, err = s.InsertUserIfAbsent(ctx, types.User{ID: "u2", Email: "admin@example.org", PasswordHash: "y"})
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("duplicate email created a second user")
	}

	got, err := s.GetUserByEmail(ctx, "admin@example.org")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "u1" || got.Role != "admin" {
		t.Errorf("user = %+v", got)
	}

	_, err = s.GetUserByEmail(ctx, "nobody@example.org")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestExport(t *testing.T) {
	s, tmpDir := testStore(t)
	ctx := context.Background()

	mustInsert(t, s, sampleRecord("gwas_diversity_study", "GWAS Diversity Study"))
	if _, err := s.EnsureCategory(ctx, "Genetics"); err != nil {
		t.Fatal(err)
	}

	if err := s.ExportYAML(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.ExportJSON(ctx); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"export.yaml", "export.json"} {
		data, err := os.ReadFile(filepath.Join(tmpDir, indexDir, name))
		if err != nil {
			t.Fatal(err)
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
