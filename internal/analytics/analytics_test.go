package analytics

import (
	"math"
	"strings"
	"testing"

	"workoverbot/internal/domain"
)

var testTaxonomy = domain.Taxonomy{
	{Label: "bailing", Keywords: []string{"BAILING"}},
	{Label: "waiting", Keywords: []string{"STANDBY", "WAIT"}},
}

func rec(desc string, hours float64, depth string) domain.Record {
	return domain.Record{EquipmentDescription: desc, DurationHours: hours, DepthInterval: depth}
}

func TestCalculateTotals(t *testing.T) {
	records := []domain.Record{
		rec("Lanjutkan BAILING OF SAND", 3.0, "F/ 611' TO 618'"),
		rec("standby crew", 2.25, "N/A"),
		rec("bailing lagi", 1.5, ""),
		rec("Rapat pagi", 0.5, "@ 618'"),
		rec("BAILING", 1, "@ 618'"),
	}
	s := CalculateTotals(records, testTaxonomy)

	if s.TotalOperations != len(records) {
		t.Fatalf("total operations = %d, want %d", s.TotalOperations, len(records))
	}
	if math.Abs(s.TotalDurationHours-8.25) > 1e-9 {
		t.Fatalf("total duration = %v, want 8.25", s.TotalDurationHours)
	}
	if s.OperationCounts["Bailing"] != 3 || s.OperationCounts["Waiting"] != 1 || s.OperationCounts["Other"] != 1 {
		t.Fatalf("unexpected counts %v", s.OperationCounts)
	}
	if strings.Join(s.OperationOrder, ",") != "Bailing,Waiting,Other" {
		t.Fatalf("unexpected order %v", s.OperationOrder)
	}
	want := []string{"F/ 611' TO 618'", "@ 618'", "@ 618'"}
	if strings.Join(s.DepthIntervals, "|") != strings.Join(want, "|") {
		t.Fatalf("depth intervals = %v, want %v", s.DepthIntervals, want)
	}
}

func TestCalculateTotalsEmpty(t *testing.T) {
	s := CalculateTotals(nil, testTaxonomy)
	if s.TotalOperations != 0 || s.TotalDurationHours != 0 || len(s.OperationCounts) != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestAnalyzeEfficiencyLongOperationThresholdIsStrict(t *testing.T) {
	report := AnalyzeEfficiency([]domain.Record{
		rec("drilling ahead", 4.5, ""),
		rec("pooh", 4.0, ""),
	})
	if len(report.LongOperations) != 1 {
		t.Fatalf("expected one long operation, got %+v", report.LongOperations)
	}
	lo := report.LongOperations[0]
	if lo.Row != 1 || lo.Duration != 4.5 || lo.Operation != "DRILLING AHEAD" {
		t.Fatalf("unexpected long operation %+v", lo)
	}
}

func TestAnalyzeEfficiencyWaitingAndLongAreIndependent(t *testing.T) {
	report := AnalyzeEfficiency([]domain.Record{
		rec("STANDBY menunggu cuaca", 2.0, ""),
		rec("w/o cement", 6.0, ""),
		rec("Circulate", 1.0, ""),
	})
	if report.WaitingTime != 8.0 || report.ProductiveTime != 1.0 {
		t.Fatalf("waiting=%v productive=%v", report.WaitingTime, report.ProductiveTime)
	}
	if len(report.LongOperations) != 1 || report.LongOperations[0].Row != 2 {
		t.Fatalf("unexpected long operations %+v", report.LongOperations)
	}
}

func TestAnalyzeEfficiencyTruncatesOperationPreview(t *testing.T) {
	desc := strings.Repeat("é", 60)
	report := AnalyzeEfficiency([]domain.Record{rec(desc, 5, "")})
	if got := []rune(report.LongOperations[0].Operation); len(got) != 50 {
		t.Fatalf("expected 50 runes, got %d", len(got))
	}
}

func TestWaitingPlusProductiveEqualsTotal(t *testing.T) {
	records := []domain.Record{
		rec("BAILING", 3.0, ""),
		rec("WAIT ON WEATHER", 1.25, ""),
		rec("STANDBY", 0.75, ""),
		rec("rig down", 5.5, ""),
	}
	totals := CalculateTotals(records, testTaxonomy)
	eff := AnalyzeEfficiency(records)
	if math.Abs(eff.WaitingTime+eff.ProductiveTime-totals.TotalDurationHours) > 1e-9 {
		t.Fatalf("waiting+productive=%v, total=%v", eff.WaitingTime+eff.ProductiveTime, totals.TotalDurationHours)
	}
}

func TestEfficiencyPercent(t *testing.T) {
	if _, ok := EfficiencyPercent(domain.EfficiencyReport{}); ok {
		t.Fatal("expected undefined efficiency for zero time")
	}
	pct, ok := EfficiencyPercent(domain.EfficiencyReport{ProductiveTime: 3, WaitingTime: 1})
	if !ok || pct != 75 {
		t.Fatalf("got %v/%v, want 75/true", pct, ok)
	}
}
