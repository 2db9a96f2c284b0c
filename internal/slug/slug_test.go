// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{
			name:  "lowercases and joins words",
			title: "GWAS Diversity Study",
			want:  "gwas_diversity_study",
		},
		{
			name:  "collapses punctuation runs",
			title: "Genome Sequencing Costs!!",
			want:  "genome_sequencing_costs",
		},
		{
			name:  "strips leading and trailing separators",
			title: "  (Cotton) Pest Resistance?  ",
			want:  "cotton_pest_resistance",
		},
		{
			name:  "keeps digits",
			title: "1000 Genomes Phase 3",
			want:  "1000_genomes_phase_3",
		},
		{
			name:  "empty title yields empty slug",
			title: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.title); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestMakeTruncates(t *testing.T) {
	long := strings.Repeat("very long title ", 20)
	got := Make(long)
	if len(got) > 50 {
		t.Errorf("slug length = %d, want <= 50", len(got))
	}
	if got == "" {
		t.Error("slug is empty")
	}
}

func TestMakeDeterministic(t *testing.T) {
	a := Make("Bt Cotton Adoption, 2002–2014")
	b := Make("Bt Cotton Adoption, 2002–2014")
	if a != b {
		t.Errorf("same title produced different slugs: %q vs %q", a, b)
	}
}
