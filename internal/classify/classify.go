package classify

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"workoverbot/internal/domain"
)

// Other is the label for descriptions no taxonomy entry matches.
const Other = "Other"

// Classify returns the title-cased label of the first taxonomy entry with a
// keyword contained in the description.
func Classify(description string, taxonomy domain.Taxonomy) string {
	desc := strings.ToUpper(description)
	for _, entry := range taxonomy {
		for _, kw := range entry.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(desc, strings.ToUpper(kw)) {
				return titleCase(entry.Label)
			}
		}
	}
	return Other
}

// Annotate returns copies of records with OperationType set.
func Annotate(records []domain.Record, taxonomy domain.Taxonomy) []domain.Record {
	out := make([]domain.Record, len(records))
	for i, r := range records {
		r.OperationType = Classify(r.EquipmentDescription, taxonomy)
		out[i] = r
	}
	return out
}

func titleCase(label string) string {
	// cases.Caser is stateful, so one per call.
	return cases.Title(language.Und).String(strings.TrimSpace(label))
}
