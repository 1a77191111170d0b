package extract

import (
	"regexp"
	"strings"
	"unicode"

	"workoverbot/internal/domain"
)

// Best-effort split of the free-text tail of a row. Nothing here can fail:
// anything that cannot be placed stays in the equipment/description field.

var (
	// depthRe matches feet-quoted depths such as "F/ 611' TO 618'", "S/D 600'" or "@ 618' (TOS)".
	depthRe = regexp.MustCompile(`(?:(?:F/|FR/|FROM|S/D|s/d|@)\s*)?\d+(?:[.,]\d+)?\s*'(?:\s*(?:TO|to|-|S/D|s/d)\s*\d+(?:[.,]\d+)?\s*')?(?:\s*\([A-Z][A-Z./ ]{0,12}\))?`)

	// depthJoinRe matches what may sit between two depths of the same interval list.
	depthJoinRe = regexp.MustCompile(`^[\s,;&]*(?:(?:DAN|AND|&)\s*)?$`)

	// shiftRe finds a Title-case word followed by a lower-case word, the usual
	// start of the Indonesian condition narrative after an upper-case operation.
	shiftRe = regexp.MustCompile(`[A-Z][a-z]{2,}\s+[a-z]`)
)

// maxDepthLeadWords is how many words before the first depth marker are
// kept with the depth clause ("B.O.S F/ 611'", "Tagged @ 618'").
const maxDepthLeadWords = 3

// SplitNarrative divides the text after the duration token into
// equipment/description, depth interval and condition/result.
func SplitNarrative(tail string) (equipment, depth, condition string) {
	tail = strings.TrimSpace(tail)
	if tail == "" {
		return domain.NotAvailable, domain.NotAvailable, domain.NotAvailable
	}

	if start, end, ok := depthSpan(tail); ok {
		equipment = tail[:start]
		depth = tail[start:end]
		condition = tail[end:]
	} else {
		cut := conditionStart(tail)
		equipment = tail[:cut]
		condition = tail[cut:]
	}
	return orNA(equipment), orNA(depth), orNA(condition)
}

func depthSpan(tail string) (int, int, bool) {
	matches := depthRe.FindAllStringIndex(tail, -1)
	if len(matches) == 0 {
		return 0, 0, false
	}
	first := matches[0][0]
	end := matches[0][1]
	for _, m := range matches[1:] {
		if !depthJoinRe.MatchString(tail[end:m[0]]) {
			break
		}
		end = m[1]
	}

	start := first
	if b := lastBoundary(tail[:first]); b > 0 {
		lead := tail[b:first]
		if n := len(strings.Fields(lead)); n > 0 && n <= maxDepthLeadWords {
			start = b + leadingSpace(lead)
		}
	}
	return start, end, true
}

// conditionStart returns where the condition narrative begins when no depth
// marker is present, or len(tail) when there is none.
func conditionStart(tail string) int {
	for _, b := range boundaries(tail) {
		prefix, rest := tail[:b], tail[b:]
		if strings.TrimSpace(rest) == "" {
			break
		}
		if upperDominant(prefix) && !upperDominant(rest) {
			return b
		}
	}
	for _, m := range shiftRe.FindAllStringIndex(tail, -1) {
		if m[0] == 0 {
			continue
		}
		if prefix := tail[:m[0]]; strings.TrimSpace(prefix) != "" && upperDominant(prefix) {
			return m[0]
		}
	}
	return len(tail)
}

// boundaries lists the offsets just past every sentence-ending period.
func boundaries(s string) []int {
	var out []int
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && isBoundary(s, i) {
			out = append(out, i+1)
		}
	}
	return out
}

func lastBoundary(s string) int {
	b := boundaries(s)
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1]
}

// isBoundary decides whether the period at s[i] ends a sentence. Single
// letter abbreviations ("B.O.S.", "M.SHOE") and decimals ("3.5") do not.
func isBoundary(s string, i int) bool {
	if i+1 < len(s) {
		next := s[i+1]
		switch {
		case next >= '0' && next <= '9':
			return false
		case next == ' ' || next == '\t' || next == '\n':
			if j := nextNonSpace(s, i+1); j < len(s) && s[j] >= 'a' && s[j] <= 'z' {
				return false
			}
		case next >= 'A' && next <= 'Z':
		case next == ')' || next == '.' || next == ',':
			return false
		}
	}
	if i == 0 {
		return false
	}
	prev := s[i-1]
	if prev == ')' || prev == '"' || prev == '\'' {
		return true
	}
	if prev >= '0' && prev <= '9' {
		return i+1 >= len(s) || s[i+1] == ' '
	}
	run := 0
	for j := i - 1; j >= 0 && isASCIILetter(s[j]); j-- {
		run++
	}
	return run >= 2
}

func upperDominant(s string) bool {
	var upper, lower int
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		}
	}
	if upper+lower == 0 {
		return false
	}
	return float64(lower) < 0.4*float64(upper+lower)
}

func orNA(s string) string {
	s = strings.TrimLeft(strings.TrimSpace(s), ".,;:")
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.NotAvailable
	}
	return s
}

func leadingSpace(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t\n"))
}

func nextNonSpace(s string, from int) int {
	for from < len(s) && (s[from] == ' ' || s[from] == '\t' || s[from] == '\n') {
		from++
	}
	return from
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
