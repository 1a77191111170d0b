package analytics

import (
	"strings"

	"workoverbot/internal/classify"
	"workoverbot/internal/domain"
)

const (
	longOperationHours   = 4.0
	longOperationPreview = 50
)

var waitingMarkers = []string{"W/O", "WAIT", "STANDBY"}

// CalculateTotals sums durations, counts operation types and collects depth
// intervals. Durations are summed at full precision.
func CalculateTotals(records []domain.Record, taxonomy domain.Taxonomy) domain.AggregateSummary {
	summary := domain.AggregateSummary{
		OperationCounts: make(map[string]int),
		DepthIntervals:  []string{},
		TotalOperations: len(records),
	}
	for _, r := range records {
		summary.TotalDurationHours += r.DurationHours

		label := classify.Classify(r.EquipmentDescription, taxonomy)
		if _, seen := summary.OperationCounts[label]; !seen {
			summary.OperationOrder = append(summary.OperationOrder, label)
		}
		summary.OperationCounts[label]++

		if depth := strings.TrimSpace(r.DepthInterval); depth != "" && depth != domain.NotAvailable {
			summary.DepthIntervals = append(summary.DepthIntervals, r.DepthInterval)
		}
	}
	return summary
}

// AnalyzeEfficiency flags long operations and splits time into waiting and
// productive buckets. The two views are independent: a long operation can
// also be waiting time.
func AnalyzeEfficiency(records []domain.Record) domain.EfficiencyReport {
	report := domain.EfficiencyReport{LongOperations: []domain.LongOperation{}}
	for i, r := range records {
		desc := strings.ToUpper(r.EquipmentDescription)

		if r.DurationHours > longOperationHours {
			report.LongOperations = append(report.LongOperations, domain.LongOperation{
				Row:       i + 1,
				Duration:  r.DurationHours,
				Operation: truncateRunes(desc, longOperationPreview),
			})
		}

		if isWaiting(desc) {
			report.WaitingTime += r.DurationHours
		} else {
			report.ProductiveTime += r.DurationHours
		}
	}
	return report
}

// EfficiencyPercent is productive / (productive + waiting) * 100. ok is false
// when no time has been recorded.
func EfficiencyPercent(report domain.EfficiencyReport) (float64, bool) {
	total := report.ProductiveTime + report.WaitingTime
	if total <= 0 {
		return 0, false
	}
	return report.ProductiveTime / total * 100, true
}

func isWaiting(upperDesc string) bool {
	for _, m := range waitingMarkers {
		if strings.Contains(upperDesc, m) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
