package extract

import (
	"testing"

	"workoverbot/internal/domain"
)

func TestSplitNarrative(t *testing.T) {
	tests := []struct {
		name                        string
		tail                        string
		equipment, depth, condition string
	}{
		{
			name:      "depth with lead word and tag",
			tail:      "RIH bailer. Tagged @ 618' (TOS) Sand naik.",
			equipment: "RIH bailer.",
			depth:     "Tagged @ 618' (TOS)",
			condition: "Sand naik.",
		},
		{
			name:      "S/D as lead marker",
			tail:      `RIH 2-7/8" TBG S/D 600'. Tubing masuk lancar.`,
			equipment: `RIH 2-7/8" TBG`,
			depth:     "S/D 600'",
			condition: "Tubing masuk lancar.",
		},
		{
			name:      "S/D between depths",
			tail:      "POOH TBG F/ 611' S/D 618'. Tubing naik.",
			equipment: "POOH TBG",
			depth:     "F/ 611' S/D 618'",
			condition: "Tubing naik.",
		},
		{
			name:      "sentence boundary case shift",
			tail:      "CIRCULATE WELL BERSIH. Sirkulasi lancar, sumur bersih.",
			equipment: "CIRCULATE WELL BERSIH.",
			depth:     domain.NotAvailable,
			condition: "Sirkulasi lancar, sumur bersih.",
		},
		{
			name:      "title word shift without period",
			tail:      "POOH 2 7/8 TBG Pompa tidak jalan",
			equipment: "POOH 2 7/8 TBG",
			depth:     domain.NotAvailable,
			condition: "Pompa tidak jalan",
		},
		{
			name:      "equipment only",
			tail:      "STANDBY",
			equipment: "STANDBY",
			depth:     domain.NotAvailable,
			condition: domain.NotAvailable,
		},
		{
			name:      "empty",
			tail:      "   ",
			equipment: domain.NotAvailable,
			depth:     domain.NotAvailable,
			condition: domain.NotAvailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, d, c := SplitNarrative(tt.tail)
			if e != tt.equipment || d != tt.depth || c != tt.condition {
				t.Fatalf("got (%q, %q, %q), want (%q, %q, %q)", e, d, c, tt.equipment, tt.depth, tt.condition)
			}
		})
	}
}

func TestIsBoundaryAbbreviations(t *testing.T) {
	s := "B.O.S. 3.5 jam. Selesai"
	var got []int
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && isBoundary(s, i) {
			got = append(got, i)
		}
	}
	// Only the period after "jam" ends a sentence.
	if len(got) != 1 || s[got[0]-3:got[0]] != "jam" {
		t.Fatalf("unexpected boundaries %v", got)
	}
}
