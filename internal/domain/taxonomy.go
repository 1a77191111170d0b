package domain

type TaxonomyEntry struct {
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Taxonomy is ordered; the first matching entry wins during classification.
type Taxonomy []TaxonomyEntry

// Clone returns a deep copy so callers cannot mutate a taxonomy mid-run.
func (t Taxonomy) Clone() Taxonomy {
	out := make(Taxonomy, len(t))
	for i, e := range t {
		out[i] = TaxonomyEntry{Label: e.Label, Keywords: append([]string(nil), e.Keywords...)}
	}
	return out
}
