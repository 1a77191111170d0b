package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"workoverbot/internal/domain"
)

func TestRuleExtractorScenario(t *testing.T) {
	row := "06:00 09:00 3.0 Lanjutkan BAILING OF SAND (B.O.S.). B.O.S F/ 611' TO 618' Pekerjaan terhenti (sand pump not go down)."
	got, err := NewRuleExtractor().Extract(context.Background(), row)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.StartTime != "06:00" || got.EndTime != "09:00" || got.DurationHours != 3.0 {
		t.Fatalf("unexpected times %+v", got)
	}
	if got.DepthInterval != "B.O.S F/ 611' TO 618'" {
		t.Fatalf("depth = %q", got.DepthInterval)
	}
	if got.EquipmentDescription != "Lanjutkan BAILING OF SAND (B.O.S.)." {
		t.Fatalf("equipment = %q", got.EquipmentDescription)
	}
	if got.ConditionResult != "Pekerjaan terhenti (sand pump not go down)." {
		t.Fatalf("condition = %q", got.ConditionResult)
	}
}

func TestRuleExtractorGluedAndCommaDuration(t *testing.T) {
	got, err := NewRuleExtractor().Extract(context.Background(), "6:0009:303,5 STANDBY")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.StartTime != "06:00" || got.EndTime != "09:30" || got.DurationHours != 3.5 {
		t.Fatalf("unexpected fields %+v", got)
	}
	if got.EquipmentDescription != "STANDBY" || got.DepthInterval != domain.NotAvailable || got.ConditionResult != domain.NotAvailable {
		t.Fatalf("unexpected narrative %+v", got)
	}
}

func TestRuleExtractorFailures(t *testing.T) {
	tests := []struct {
		row   string
		field string
	}{
		{"BAILING OF SAND", "start_time/end_time"},
		{"06:00 09:00 BAILING", "duration_hours"},
	}
	for _, tt := range tests {
		_, err := NewRuleExtractor().Extract(context.Background(), tt.row)
		var fe *FieldExtractionError
		if !errors.As(err, &fe) || fe.Field != tt.field {
			t.Fatalf("Extract(%q) error = %v, want field %s", tt.row, err, tt.field)
		}
		if !errors.Is(err, ErrFieldExtraction) {
			t.Fatalf("expected ErrFieldExtraction match for %q", tt.row)
		}
	}
}

func TestRuleExtractorHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRuleExtractor().Extract(ctx, "06:00 09:00 3.0 X"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseDuration(t *testing.T) {
	for in, want := range map[string]float64{"3": 3, "3.0": 3, "3,5": 3.5, " 0.25 ": 0.25} {
		got, err := ParseDuration(in)
		if err != nil || got != want {
			t.Fatalf("ParseDuration(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDuration("-1"); err == nil || !strings.Contains(err.Error(), "negative") {
		t.Fatalf("expected negative duration error, got %v", err)
	}
	if _, err := ParseDuration("abc"); err == nil {
		t.Fatal("expected parse error")
	}
}
