// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"reflect"
	"testing"

	"github.com/pdiddy/biodata-hub/pkg/types"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		identifier string
		want       string
	}{
		{"genome_costs", "Genomics"},
		{"gwas_diversity", "Genetics"},
		{"pbw_resistance_2014", "Agriculture"},
		{"cotton_yield", "Agriculture"},
		{"GWAS_DIVERSITY", "Genetics"},
		{"soil_microbiome_survey", "Biology"},
		{"", "Biology"},
		// "genome" outranks "gwas" in table order.
		{"genome_gwas_combined", "Genomics"},
	}

	for _, tt := range tests {
		if got := Category(tt.identifier); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.identifier, got, tt.want)
		}
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		parsed     *types.ParsedRecord
		want       []string
	}{
		{
			name:       "single rule",
			identifier: "gwas_diversity",
			want:       []string{"GWAS", "Population Genetics", "Ancestry"},
		},
		{
			name:       "rule plus year",
			identifier: "gwas_diversity",
			parsed:     &types.ParsedRecord{Year: "2023"},
			want:       []string{"GWAS", "Population Genetics", "Ancestry", "2023"},
		},
		{
			name:       "alternated keywords share a rule",
			identifier: "pbw_monitoring",
			want:       []string{"Agriculture", "Bt Cotton", "Pest Resistance"},
		},
		{
			name:       "no rule, year only",
			identifier: "soil_survey",
			parsed:     &types.ParsedRecord{Year: "1998"},
			want:       []string{"1998"},
		},
		{
			name:       "no matches at all",
			identifier: "soil_survey",
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Tags(tt.identifier, tt.parsed); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags(%q) = %v, want %v", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestTagsCap(t *testing.T) {
	// genome + cost + projects match three rules (6 tags) and the year
	// would be the seventh; the cap keeps the first five.
	got := Tags("genome_cost_projects", &types.ParsedRecord{Year: "2020"})
	want := []string{"Genome", "Sequencing", "Cost Analysis", "Historical Data", "Global Projects"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tags = %v, want %v", got, want)
	}
	if len(got) > MaxTags {
		t.Errorf("len = %d, want <= %d", len(got), MaxTags)
	}
}

func TestTagsCaseSensitive(t *testing.T) {
	// Tag matching preserves the legacy producer's case-sensitive scan;
	// category matching does not.
	if got := Tags("GWAS_diversity", nil); len(got) != 0 {
		t.Errorf("Tags = %v, want none for uppercase identifier", got)
	}
	if got := Category("GWAS_diversity"); got != "Genetics" {
		t.Errorf("Category = %q, want Genetics", got)
	}
}
