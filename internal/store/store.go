// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists research records, categories, and users in a
// SQLite database and exposes the read surface the API layer consumes.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/biodata-hub/pkg/apperrors"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "biodata.db"
)

const defaultSearchLimit = 50

// Store manages the platform's SQLite database.
type Store struct {
	db          *sql.DB
	dataDir     string
	searchLimit int
}

// NewStore opens or creates the database at dataDir/index/biodata.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating index directory: %v", apperrors.ErrStoreUnavailable, err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", apperrors.ErrStoreUnavailable, err)
	}

	searchLimit := cfg.SearchLimit
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}

	s := &Store{
		db:          db,
		dataDir:     cfg.DataDir,
		searchLimit: searchLimit,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: creating schema: %v", apperrors.ErrStoreUnavailable, err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS research (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			abstract TEXT NOT NULL,
			description TEXT,
			authors TEXT NOT NULL DEFAULT '[]',
			source_name TEXT,
			source_url TEXT,
			journal TEXT,
			doi TEXT,
			last_updated TEXT,
			dataset_file TEXT,
			category_name TEXT,
			tags TEXT NOT NULL DEFAULT '[]',
			year INTEGER,
			image_files TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_research_created_at ON research(created_at)`,
		`CREATE TABLE IF NOT EXISTS categories (
			name TEXT PRIMARY KEY,
			icon TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			name TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
