// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreConfig holds settings for the SQLite document store.
type StoreConfig struct {
	// DataDir is the base data directory (contains metadata/, raw/,
	// references/, uploads/ and the store index).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// SearchLimit caps the number of rows a search returns (default 50).
	SearchLimit int `json:"search_limit" yaml:"search_limit"`
}

// IngestConfig holds settings for the migration batch job.
type IngestConfig struct {
	// MetadataDir is the directory of legacy metadata JSON files.
	MetadataDir string `json:"metadata_dir" yaml:"metadata_dir"`

	// UsersFile is the legacy users.json path. Optional.
	UsersFile string `json:"users_file" yaml:"users_file"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":5000").
	Addr string `json:"addr" yaml:"addr"`

	// Env selects logger behavior: "production" or anything else for
	// development output.
	Env string `json:"env" yaml:"env"`

	// ReadTimeout and WriteTimeout bound request handling.
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// AuthConfig holds settings for the demo token issuer.
type AuthConfig struct {
	// Secret signs HS256 tokens. Loaded from .secrets/jwt-secret when empty.
	Secret string `json:"-" yaml:"-"`

	// AdminUser and AdminPassword are the demo admin credentials.
	AdminUser     string `json:"admin_user" yaml:"admin_user"`
	AdminPassword string `json:"-" yaml:"-"`

	// TokenTTL is the token lifetime (default 24h).
	TokenTTL time.Duration `json:"token_ttl" yaml:"token_ttl"`
}
