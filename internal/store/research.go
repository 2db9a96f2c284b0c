// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pdiddy/biodata-hub/internal/slug"
	"github.com/pdiddy/biodata-hub/pkg/apperrors"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// ConflictStrategy selects what InsertResearch does when the slug already
// exists. The two policies are deliberately distinct: migration reconciles
// in bulk and must be re-runnable, the create API enforces uniqueness
// against the caller. They are never unified silently.
type ConflictStrategy int

const (
	// SkipOnConflict treats an existing slug as already migrated and
	// leaves the stored record untouched.
	SkipOnConflict ConflictStrategy = iota

	// RejectOnConflict surfaces an existing slug as ErrConflict.
	RejectOnConflict
)

// InsertResearch persists a record under its slug. The existence check and
// insert run in one transaction, so concurrent ingestion cannot produce
// duplicate slugs; the unique constraint on the slug column backstops it.
// The inserted return value reports whether a row was written.
func (s *Store) InsertResearch(ctx context.Context, rec *types.ResearchRecord, strategy ConflictStrategy) (inserted bool, err error) {
	if rec.Slug == "" {
		return false, fmt.Errorf("%w: record has no slug", apperrors.ErrValidation)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: beginning transaction: %v", apperrors.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM research WHERE slug = ?`, rec.Slug).Scan(&exists)
	switch {
	case err == nil:
		if strategy == RejectOnConflict {
			return false, fmt.Errorf("%w: research with slug %q already exists", apperrors.ErrConflict, rec.Slug)
		}
		return false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return false, fmt.Errorf("%w: checking slug: %v", apperrors.ErrStoreUnavailable, err)
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	authorsJSON, _ := json.Marshal(emptyIfNil(rec.Authors))
	tagsJSON, _ := json.Marshal(emptyIfNil(rec.Tags))
	imagesJSON, _ := json.Marshal(emptyIfNil(rec.ImageFiles))

	var year any
	if rec.Year != 0 {
		year = rec.Year
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO research (slug, title, abstract, description, authors,
			source_name, source_url, journal, doi, last_updated, dataset_file,
			category_name, tags, year, image_files, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Slug, rec.Title, rec.Abstract, rec.Description, string(authorsJSON),
		rec.SourceName, rec.SourceURL, rec.Journal, rec.DOI, rec.LastUpdated,
		rec.DatasetFile, rec.CategoryName, string(tagsJSON), year,
		string(imagesJSON), now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("%w: inserting research %s: %v", apperrors.ErrStoreUnavailable, rec.Slug, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: committing: %v", apperrors.ErrStoreUnavailable, err)
	}
	return true, nil
}

// NewResearch holds the normalized input of the direct create path. The
// HTTP layer is responsible for decoding comma-separated strings into
// slices before calling CreateResearch.
type NewResearch struct {
	Title       string
	Authors     []string
	Abstract    string
	Tags        []string
	Category    string
	Year        int
	DOI         string
	Description string
	SourceName  string
	SourceURL   string
}

// CreateResearch validates in, derives the slug, and persists a new record
// with the reject-on-conflict policy. Title, authors, and abstract are
// required; a missing field yields ErrValidation and nothing is persisted.
// An omitted year defaults to the current calendar year, and an omitted
// description defaults to the abstract.
func (s *Store) CreateResearch(ctx context.Context, in NewResearch) (*types.ResearchRecord, error) {
	if in.Title == "" || len(in.Authors) == 0 || in.Abstract == "" {
		return nil, fmt.Errorf("%w: title, authors, and abstract are required", apperrors.ErrValidation)
	}

	year := in.Year
	if year == 0 {
		year = time.Now().Year()
	}
	description := in.Description
	if description == "" {
		description = in.Abstract
	}
	tags := in.Tags
	if len(tags) > 5 {
		tags = tags[:5]
	}

	rec := &types.ResearchRecord{
		Slug:         slug.Make(in.Title),
		Title:        in.Title,
		Abstract:     in.Abstract,
		Description:  description,
		Authors:      in.Authors,
		Tags:         tags,
		CategoryName: in.Category,
		Year:         year,
		DOI:          in.DOI,
		SourceName:   in.SourceName,
		SourceURL:    in.SourceURL,
	}

	if _, err := s.InsertResearch(ctx, rec, RejectOnConflict); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetBySlug returns the record identified by slug, or ErrNotFound.
func (s *Store) GetBySlug(ctx context.Context, slugID string) (*types.ResearchRecord, error) {
	row := s.db.QueryRowContext(ctx, selectResearch+` WHERE slug = ?`, slugID)
	rec, err := scanResearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: research %q", apperrors.ErrNotFound, slugID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading research %s: %v", apperrors.ErrStoreUnavailable, slugID, err)
	}
	return rec, nil
}

// List returns all records, most recently created first.
func (s *Store) List(ctx context.Context) ([]*types.ResearchRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectResearch+` ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing research: %v", apperrors.ErrStoreUnavailable, err)
	}
	defer rows.Close()
	return collectResearch(rows)
}

// Search returns records whose title, abstract, tags, or authors contain q,
// case-insensitively. An empty query returns an empty result set, never the
// full corpus. Results are capped at the configured search limit.
func (s *Store) Search(ctx context.Context, q string) ([]*types.ResearchRecord, error) {
	if q == "" {
		return []*types.ResearchRecord{}, nil
	}

	// Tags and authors are stored as JSON arrays; match their unnested
	// values so quote and comma characters in q cannot hit the
	// serialization syntax.
	rows, err := s.db.QueryContext(ctx, selectResearch+`
		WHERE instr(lower(title), lower(?)) > 0
		   OR instr(lower(abstract), lower(?)) > 0
		   OR EXISTS (SELECT 1 FROM json_each(research.tags) je
		              WHERE instr(lower(je.value), lower(?)) > 0)
		   OR EXISTS (SELECT 1 FROM json_each(research.authors) je
		              WHERE instr(lower(je.value), lower(?)) > 0)
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, q, q, q, q, s.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: searching research: %v", apperrors.ErrStoreUnavailable, err)
	}
	defer rows.Close()
	return collectResearch(rows)
}

// DistinctYears returns the distinct year values as strings, descending.
func (s *Store) DistinctYears(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT year FROM research WHERE year IS NOT NULL ORDER BY year DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing years: %v", apperrors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	years := []string{}
	for rows.Next() {
		var y int
		if err := rows.Scan(&y); err != nil {
			return nil, fmt.Errorf("scanning year: %w", err)
		}
		years = append(years, strconv.Itoa(y))
	}
	return years, rows.Err()
}

// DistinctAuthors returns the distinct author names, ascending.
func (s *Store) DistinctAuthors(ctx context.Context) ([]string, error) {
	return s.distinctArrayValues(ctx, "authors")
}

// DistinctTags returns the distinct tags, ascending.
func (s *Store) DistinctTags(ctx context.Context) ([]string, error) {
	return s.distinctArrayValues(ctx, "tags")
}

// distinctArrayValues unnests a JSON array column with json_each and
// returns its distinct non-empty values sorted ascending.
func (s *Store) distinctArrayValues(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT je.value FROM research r, json_each(r.%s) je
		 WHERE trim(je.value) <> '' ORDER BY je.value ASC`, column)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", apperrors.ErrStoreUnavailable, column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

const selectResearch = `SELECT slug, title, abstract, description, authors,
	source_name, source_url, journal, doi, last_updated, dataset_file,
	category_name, tags, year, image_files, created_at, updated_at
	FROM research`

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanResearch(row rowScanner) (*types.ResearchRecord, error) {
	var (
		rec         types.ResearchRecord
		description sql.NullString
		sourceName  sql.NullString
		sourceURL   sql.NullString
		journal     sql.NullString
		doi         sql.NullString
		lastUpdated sql.NullString
		datasetFile sql.NullString
		category    sql.NullString
		year        sql.NullInt64
		authorsJSON string
		tagsJSON    string
		imagesJSON  string
		createdAt   string
		updatedAt   string
	)

	err := row.Scan(&rec.Slug, &rec.Title, &rec.Abstract, &description,
		&authorsJSON, &sourceName, &sourceURL, &journal, &doi, &lastUpdated,
		&datasetFile, &category, &tagsJSON, &year, &imagesJSON,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec.Description = description.String
	rec.SourceName = sourceName.String
	rec.SourceURL = sourceURL.String
	rec.Journal = journal.String
	rec.DOI = doi.String
	rec.LastUpdated = lastUpdated.String
	rec.DatasetFile = datasetFile.String
	rec.CategoryName = category.String
	if year.Valid {
		rec.Year = int(year.Int64)
	}

	json.Unmarshal([]byte(authorsJSON), &rec.Authors)
	json.Unmarshal([]byte(tagsJSON), &rec.Tags)
	json.Unmarshal([]byte(imagesJSON), &rec.ImageFiles)

	if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		rec.CreatedAt = t
	}
	if t, parseErr := time.Parse(time.RFC3339Nano, updatedAt); parseErr == nil {
		rec.UpdatedAt = t
	}

	return &rec, nil
}

func collectResearch(rows *sql.Rows) ([]*types.ResearchRecord, error) {
	records := []*types.ResearchRecord{}
	for rows.Next() {
		rec, err := scanResearch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning research row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
