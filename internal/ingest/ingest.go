// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ingest migrates legacy metadata documents into the store. The
// batch is idempotent: records are keyed by slug and an existing slug is
// treated as already migrated, so re-running over the same inputs writes
// nothing new. Parse failures skip the file and the batch continues; store
// failures abort the run.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/biodata-hub/internal/classify"
	"github.com/pdiddy/biodata-hub/internal/legacy"
	"github.com/pdiddy/biodata-hub/internal/slug"
	"github.com/pdiddy/biodata-hub/internal/store"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// fallbackAbstract fills the required abstract field when a legacy document
// carries no description. The migration path persists such records anyway;
// the direct create path would reject them. The two paths intentionally
// disagree here and the difference is kept.
const fallbackAbstract = "No abstract available."

// templateSuffix marks files excluded from ingestion by convention.
const templateSuffix = "template.json"

// Summary holds counts from a migration run.
type Summary struct {
	Migrated          int
	Skipped           int
	Failed            int
	UsersMigrated     int
	CategoriesCreated int
}

// Total returns the number of metadata documents processed.
func (s Summary) Total() int {
	return s.Migrated + s.Skipped + s.Failed
}

// Run migrates research records from cfg.MetadataDir, then legacy users from
// cfg.UsersFile, then populates categories from the distinct category names
// across persisted records. Per-item status lines go to w.
func Run(ctx context.Context, st *store.Store, cfg types.IngestConfig, w io.Writer) (Summary, error) {
	var summary Summary

	if err := migrateResearch(ctx, st, cfg.MetadataDir, w, &summary); err != nil {
		return summary, err
	}
	if cfg.UsersFile != "" {
		if err := migrateUsers(ctx, st, cfg.UsersFile, w, &summary); err != nil {
			return summary, err
		}
	}
	if err := populateCategories(ctx, st, w, &summary); err != nil {
		return summary, err
	}

	fmt.Fprintf(w, "\nmigrated: %d, skipped: %d, failed: %d (users: %d, categories: %d)\n",
		summary.Migrated, summary.Skipped, summary.Failed,
		summary.UsersMigrated, summary.CategoriesCreated)

	return summary, nil
}

func migrateResearch(ctx context.Context, st *store.Store, metadataDir string, w io.Writer, summary *Summary) error {
	entries, err := os.ReadDir(metadataDir)
	if err != nil {
		return fmt.Errorf("reading metadata directory %s: %w", metadataDir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if strings.HasSuffix(entry.Name(), templateSuffix) {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		identifier := strings.TrimSuffix(entry.Name(), ".json")
		path := filepath.Join(metadataDir, entry.Name())

		rec, err := recordFromFile(identifier, path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", identifier, err)
			summary.Failed++
			continue
		}

		inserted, err := st.InsertResearch(ctx, rec, store.SkipOnConflict)
		if err != nil {
			// Store failures are fatal to the whole run.
			return err
		}
		if inserted {
			fmt.Fprintf(w, "migrated %s\n", rec.Slug)
			summary.Migrated++
		} else {
			fmt.Fprintf(w, "skipped  %s (already migrated)\n", rec.Slug)
			summary.Skipped++
		}
	}

	return nil
}

// recordFromFile reads and parses one legacy document and normalizes it
// into a ResearchRecord.
func recordFromFile(identifier, path string) (*types.ResearchRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var doc types.LegacyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	parsed, err := legacy.Parse(doc)
	if err != nil {
		return nil, err
	}

	return buildRecord(identifier, parsed)
}

// buildRecord merges the parsed fields with the inferred category and tags
// into the canonical schema.
func buildRecord(identifier string, parsed *types.ParsedRecord) (*types.ResearchRecord, error) {
	title := parsed.Title
	if title == "" {
		title = strings.ReplaceAll(identifier, "_", " ")
	}

	slugID := slug.Make(title)
	if slugID == "" {
		return nil, errors.New("title yields an empty slug")
	}

	abstract := parsed.Description
	if abstract == "" {
		abstract = fallbackAbstract
	}

	return &types.ResearchRecord{
		Slug:         slugID,
		Title:        title,
		Abstract:     abstract,
		Description:  parsed.Description,
		Authors:      splitAuthors(parsed.AuthorsRaw),
		SourceName:   parsed.SourceName,
		SourceURL:    parsed.SourceURL,
		Journal:      parsed.Journal,
		DOI:          parsed.DOI,
		LastUpdated:  parsed.LastUpdated,
		DatasetFile:  parsed.RawDataFile,
		CategoryName: classify.Category(identifier),
		Tags:         classify.Tags(identifier, parsed),
		Year:         leadingInt(parsed.Year),
	}, nil
}

func migrateUsers(ctx context.Context, st *store.Store, usersFile string, w io.Writer, summary *Summary) error {
	data, err := os.ReadFile(usersFile)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(w, "users file %s not found, skipping\n", usersFile)
			return nil
		}
		return fmt.Errorf("reading users file: %w", err)
	}

	var users []types.User
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("decoding users file: %w", err)
	}

	for _, u := range users {
		if u.Email == "" {
			fmt.Fprintf(w, "failed  user without email, skipping\n")
			continue
		}
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		created, err := st.InsertUserIfAbsent(ctx, u)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(w, "migrated user %s\n", u.Email)
			summary.UsersMigrated++
		} else {
			fmt.Fprintf(w, "skipped  user %s (exists)\n", u.Email)
		}
	}

	return nil
}

func populateCategories(ctx context.Context, st *store.Store, w io.Writer, summary *Summary) error {
	names, err := st.ResearchCategoryNames(ctx)
	if err != nil {
		return err
	}

	for _, name := range names {
		created, err := st.EnsureCategory(ctx, name)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(w, "created category %s\n", name)
			summary.CategoriesCreated++
		}
	}

	return nil
}

// splitAuthors turns the comma-joined citation field into an ordered list,
// trimming whitespace and dropping empty entries.
func splitAuthors(raw string) []string {
	authors := []string{}
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// leadingInt parses the leading decimal digits of s, the way the legacy
// producer's integer coercion did. Returns 0 when there are none.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0
	}
	n := 0
	for _, c := range s[:i] {
		n = n*10 + int(c-'0')
	}
	return n
}
