// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slug derives canonical record identifiers from free-text titles.
package slug

import (
	"regexp"
	"strings"
)

// maxLen caps slug length. Longer titles truncate; the store's unique
// constraint is what actually guarantees identity, not the generator.
const maxLen = 50

// nonAlnum matches every maximal run of characters outside [a-z0-9].
var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make derives a lowercase, underscore-delimited slug from title. It is a
// pure function: the same title always yields the same slug. An empty or
// whitespace-only title yields an empty slug, which callers must reject
// before persisting.
func Make(title string) string {
	s := strings.ToLower(title)
	s = nonAlnum.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}
