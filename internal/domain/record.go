package domain

import "fmt"

// NotAvailable marks a textual field that is legitimately absent from a row.
const NotAvailable = "N/A"

// FieldSet is the raw six-field shape every extractor produces for one row.
type FieldSet struct {
	StartTime            string  `json:"start_time"`
	EndTime              string  `json:"end_time"`
	DurationHours        float64 `json:"duration_hours"`
	EquipmentDescription string  `json:"equipment_description"`
	DepthInterval        string  `json:"depth_interval"`
	ConditionResult      string  `json:"condition_result"`
}

type Record struct {
	Row    int    `json:"row"`    // 1-based index of the source row
	Source string `json:"source"` // "rule" or "ai"

	StartTime            string  `json:"start_time"`
	EndTime              string  `json:"end_time"`
	DurationHours        float64 `json:"duration_hours"`
	EquipmentDescription string  `json:"equipment_description"`
	DepthInterval        string  `json:"depth_interval"`
	ConditionResult      string  `json:"condition_result"`

	OperationType string `json:"operation_type,omitempty"`
}

func NewRecord(row int, source string, f FieldSet) Record {
	return Record{
		Row:                  row,
		Source:               source,
		StartTime:            f.StartTime,
		EndTime:              f.EndTime,
		DurationHours:        f.DurationHours,
		EquipmentDescription: f.EquipmentDescription,
		DepthInterval:        f.DepthInterval,
		ConditionResult:      f.ConditionResult,
	}
}

// DurationDisplay rounds the duration to one decimal; the stored value keeps full precision.
func (r Record) DurationDisplay() string {
	return fmt.Sprintf("%.1f", r.DurationHours)
}

type RowFailure struct {
	Row    int    `json:"row"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}
