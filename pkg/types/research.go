// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ResearchRecord is the canonical persisted form of a research dataset.
// Identity is the slug: unique across the store and immutable once created.
type ResearchRecord struct {
	// Slug is the external-facing identifier, derived from the title.
	Slug string `json:"slug" yaml:"slug"`

	// Title is the dataset title.
	Title string `json:"title" yaml:"title"`

	// Abstract is required and non-empty for every persisted record.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Description is the longer free-text description.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Authors lists author names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	SourceName string `json:"source_name,omitempty" yaml:"source_name,omitempty"`
	SourceURL  string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Journal    string `json:"journal,omitempty" yaml:"journal,omitempty"`
	DOI        string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// LastUpdated is the source-reported update date, kept verbatim
	// (ISO date or whatever the legacy producer wrote).
	LastUpdated string `json:"last_updated,omitempty" yaml:"last_updated,omitempty"`

	// DatasetFile names the raw data file served by the file collaborator.
	// The record stores only the name, never the bytes.
	DatasetFile string `json:"dataset_file,omitempty" yaml:"dataset_file,omitempty"`

	// CategoryName is the single inferred category.
	CategoryName string `json:"category_name,omitempty" yaml:"category_name,omitempty"`

	// Tags holds at most five entries, in inference order.
	Tags []string `json:"tags" yaml:"tags"`

	// Year is the publication year. Zero means absent.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// ImageFiles lists figure image filenames.
	ImageFiles []string `json:"image_files,omitempty" yaml:"image_files,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// DefaultCategory is assigned when no keyword rule matches and when a
// persisted record carries no category at all.
const DefaultCategory = "Biology"

// DefaultCategoryIcon is the glyph assigned to lazily created categories.
const DefaultCategoryIcon = "🧬"

// Category is a derived aggregate created lazily during migration from the
// distinct category names observed across research records.
type Category struct {
	Name string `json:"name" yaml:"name"`
	Icon string `json:"icon" yaml:"icon"`
}

// User is an identity reference consumed by the upload-attribution path.
// Authentication itself lives behind the demo login stub.
type User struct {
	ID           string `json:"id" yaml:"id"`
	Email        string `json:"email" yaml:"email"`
	PasswordHash string `json:"passwordHash" yaml:"passwordHash"`
	Role         string `json:"role" yaml:"role"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
}
