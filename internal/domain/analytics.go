package domain

type AggregateSummary struct {
	TotalDurationHours float64        `json:"total_duration_hours"`
	OperationCounts    map[string]int `json:"operation_counts"`
	OperationOrder     []string       `json:"operation_order"` // labels in first-seen order
	DepthIntervals     []string       `json:"depth_intervals"`
	TotalOperations    int            `json:"total_operations"`
}

type LongOperation struct {
	Row       int     `json:"row"`
	Duration  float64 `json:"duration"`
	Operation string  `json:"operation"`
}

type EfficiencyReport struct {
	LongOperations []LongOperation `json:"long_operations"`
	WaitingTime    float64         `json:"waiting_time"`
	ProductiveTime float64         `json:"productive_time"`
}

// Batch is the full result of one processing invocation.
type Batch struct {
	RunID      string           `json:"run_id"`
	RowCount   int              `json:"row_count"`
	Records    []Record         `json:"records"`
	Failures   []RowFailure     `json:"failures"`
	Summary    AggregateSummary `json:"summary"`
	Efficiency EfficiencyReport `json:"efficiency"`
	TokensUsed int64            `json:"tokens_used"` // LLM tokens across all AI rows; 0 for rule-only runs
}
