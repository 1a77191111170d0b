package taxonomy

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"workoverbot/internal/domain"
)

type taxonomyFile struct {
	Operations []domain.TaxonomyEntry `yaml:"operations"`
}

// Default is the built-in operation taxonomy. Earlier entries win when a
// description carries keywords from several categories.
func Default() domain.Taxonomy {
	return domain.Taxonomy{
		{Label: "bailing", Keywords: []string{"BAILING", "B.O.S", "BAIL"}},
		{Label: "tripping", Keywords: []string{"POOH", "RIH", "TRIP", "CABUT", "MASUK RANGKAIAN"}},
		{Label: "circulating", Keywords: []string{"CIRCULAT", "SIRKULASI", "REVERSE"}},
		{Label: "cementing", Keywords: []string{"CEMENT", "SEMEN", "SQUEEZE"}},
		{Label: "perforating", Keywords: []string{"PERFORAT", "PERFO", "SHOOT"}},
		{Label: "fishing", Keywords: []string{"FISHING", "OVERSHOT", "SPEAR", "MILL"}},
		{Label: "testing", Keywords: []string{"SWAB", "TEST", "UJI"}},
		{Label: "rig move", Keywords: []string{"RIG UP", "RIG DOWN", "R/U", "R/D", "MOVE"}},
		{Label: "waiting", Keywords: []string{"W/O", "WAIT", "STANDBY", "TUNGGU"}},
		{Label: "safety", Keywords: []string{"SAFETY", "JSA", "MEETING"}},
	}
}

// Load reads a YAML taxonomy file of the form
//
//	operations:
//	  - label: bailing
//	    keywords: [BAILING, B.O.S]
//
// Entry order is kept.
func Load(path string) (domain.Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse taxonomy yaml: %w", err)
	}

	out := make(domain.Taxonomy, 0, len(f.Operations))
	for i, e := range f.Operations {
		label := strings.TrimSpace(e.Label)
		if label == "" {
			return nil, fmt.Errorf("taxonomy entry %d: empty label", i+1)
		}
		var keywords []string
		for _, k := range e.Keywords {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		out = append(out, domain.TaxonomyEntry{Label: label, Keywords: keywords})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("taxonomy %s has no operations", path)
	}
	return out, nil
}

// Lines renders one "label: kw1, kw2" line per entry.
func Lines(t domain.Taxonomy) []string {
	lines := make([]string, 0, len(t))
	for _, e := range t {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Label, strings.Join(e.Keywords, ", ")))
	}
	return lines
}
