// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify infers a category and a bounded tag set from a dataset
// identifier. The mapping is static ordered rule data; no randomness, no
// external lookups.
package classify

import (
	"strings"

	"github.com/pdiddy/biodata-hub/pkg/types"
)

// MaxTags bounds the tag list on every record.
const MaxTags = 5

// categoryRule maps an identifier keyword to a category. First match in
// table order wins.
type categoryRule struct {
	Match    string
	Category string
}

// tagRule appends its tags when any of its keywords occurs in the
// identifier. Every matching rule contributes, in table order.
type tagRule struct {
	Match []string
	Tags  []string
}

var categoryRules = []categoryRule{
	{Match: "genome", Category: "Genomics"},
	{Match: "gwas", Category: "Genetics"},
	{Match: "pbw", Category: "Agriculture"},
	{Match: "cotton", Category: "Agriculture"},
}

var tagRules = []tagRule{
	{Match: []string{"genome"}, Tags: []string{"Genome", "Sequencing"}},
	{Match: []string{"cost"}, Tags: []string{"Cost Analysis", "Historical Data"}},
	{Match: []string{"projects"}, Tags: []string{"Global Projects", "National Initiatives"}},
	{Match: []string{"gwas"}, Tags: []string{"GWAS", "Population Genetics", "Ancestry"}},
	{Match: []string{"pbw", "cotton"}, Tags: []string{"Agriculture", "Bt Cotton", "Pest Resistance"}},
}

// Category matches identifier against the keyword table, case-insensitively,
// and returns the first hit. Unmatched identifiers fall back to the default
// category.
func Category(identifier string) string {
	id := strings.ToLower(identifier)
	for _, r := range categoryRules {
		if strings.Contains(id, r.Match) {
			return r.Category
		}
	}
	return types.DefaultCategory
}

// Tags builds the tag list for a record: every matching rule appends its
// tags in table order, the parsed year (when present) goes last, and the
// result is truncated to MaxTags entries. Truncation, not dedup — rules
// emitting duplicates count against the cap. Keyword matching here is
// case-sensitive, unlike Category; the legacy producer behaved that way and
// the identifiers it wrote are already lowercase.
func Tags(identifier string, parsed *types.ParsedRecord) []string {
	tags := []string{}
	for _, r := range tagRules {
		for _, kw := range r.Match {
			if strings.Contains(identifier, kw) {
				tags = append(tags, r.Tags...)
				break
			}
		}
	}
	if parsed != nil && parsed.Year != "" {
		tags = append(tags, parsed.Year)
	}
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	return tags
}
