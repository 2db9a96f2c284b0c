// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"

	"github.com/pdiddy/biodata-hub/pkg/apperrors"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// EnsureCategory creates the named category with the default icon unless a
// category with that name already exists. The created return value reports
// whether a row was written.
func (s *Store) EnsureCategory(ctx context.Context, name string) (created bool, err error) {
	if name == "" {
		name = types.DefaultCategory
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO categories (name, icon) VALUES (?, ?)`,
		name, types.DefaultCategoryIcon)
	if err != nil {
		return false, fmt.Errorf("%w: creating category %s: %v", apperrors.ErrStoreUnavailable, name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("creating category %s: %w", name, err)
	}
	return n > 0, nil
}

// ListCategories returns all categories sorted by name ascending.
func (s *Store) ListCategories(ctx context.Context) ([]types.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, icon FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing categories: %v", apperrors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	categories := []types.Category{}
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.Name, &c.Icon); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DistinctCategories returns the category names, ascending.
func (s *Store) DistinctCategories(ctx context.Context) ([]string, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	return names, nil
}

// ResearchCategoryNames returns the distinct category names observed across
// persisted research records sorted ascending, substituting the default
// category for records that carry none. Used by the migration's category
// population pass and the domain facet.
func (s *Store) ResearchCategoryNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT COALESCE(NULLIF(category_name, ''), ?) FROM research ORDER BY 1 ASC`,
		types.DefaultCategory)
	if err != nil {
		return nil, fmt.Errorf("%w: listing research categories: %v", apperrors.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning category name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
