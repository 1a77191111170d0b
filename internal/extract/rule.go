package extract

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"workoverbot/internal/domain"
)

const SourceRule = "rule"

var (
	leadTimesRe = regexp.MustCompile(`^\s*([01]?\d|2[0-4]):([0-5]\d)\s*([01]?\d|2[0-4]):([0-5]\d)`)
	durationRe  = regexp.MustCompile(`^\s*(\d{1,2}(?:[.,]\d{1,2})?)`)
)

// RuleExtractor extracts fields with regular expressions and text heuristics.
// Times and duration are strict; the narrative split is best-effort.
type RuleExtractor struct{}

func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

func (RuleExtractor) Extract(ctx context.Context, row string) (domain.FieldSet, error) {
	if err := ctx.Err(); err != nil {
		return domain.FieldSet{}, err
	}

	m := leadTimesRe.FindStringSubmatchIndex(row)
	if m == nil {
		return domain.FieldSet{}, &FieldExtractionError{Field: "start_time/end_time", Reason: "no HH:MM HH:MM anchor at row start"}
	}
	start := clock(row[m[2]:m[3]], row[m[4]:m[5]])
	end := clock(row[m[6]:m[7]], row[m[8]:m[9]])
	rest := row[m[1]:]

	d := durationRe.FindStringSubmatchIndex(rest)
	if d == nil {
		return domain.FieldSet{}, &FieldExtractionError{Field: "duration_hours", Reason: "no duration token after times"}
	}
	hours, err := ParseDuration(rest[d[2]:d[3]])
	if err != nil {
		return domain.FieldSet{}, &FieldExtractionError{Field: "duration_hours", Reason: err.Error()}
	}

	equipment, depth, condition := SplitNarrative(rest[d[1]:])
	return domain.FieldSet{
		StartTime:            start,
		EndTime:              end,
		DurationHours:        hours,
		EquipmentDescription: equipment,
		DepthInterval:        depth,
		ConditionResult:      condition,
	}, nil
}

// ParseDuration accepts "3", "3.0", "3,5" and rejects negative values.
func ParseDuration(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative duration %v", v)
	}
	return v, nil
}

func clock(hour, minute string) string {
	h, _ := strconv.Atoi(hour)
	return fmt.Sprintf("%02d:%s", h, minute)
}
