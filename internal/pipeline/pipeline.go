package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"workoverbot/internal/analytics"
	"workoverbot/internal/classify"
	"workoverbot/internal/domain"
	"workoverbot/internal/extract"
	"workoverbot/internal/segment"
)

const (
	defaultRowTimeout  = 30 * time.Second
	defaultConcurrency = 4
)

type Options struct {
	UseAI       bool
	RowTimeout  time.Duration // per-row bound on the AI call
	Concurrency int           // rows extracted at once
}

// Orchestrator runs the segment, extract, classify and aggregate stages for
// one pasted report at a time. It holds no per-run state.
type Orchestrator struct {
	rule extract.TextExtractor
	ai   extract.TextExtractor // nil when no AI credential is configured
	opts Options
}

func New(rule, ai extract.TextExtractor, opts Options) *Orchestrator {
	if opts.RowTimeout <= 0 {
		opts.RowTimeout = defaultRowTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Orchestrator{rule: rule, ai: ai, opts: opts}
}

// WithUseAI returns a copy of the orchestrator with the AI strategy toggled.
func (o *Orchestrator) WithUseAI(useAI bool) *Orchestrator {
	cp := *o
	cp.opts.UseAI = useAI
	return &cp
}

// AIEnabled reports whether rows will be sent to the AI extractor first.
func (o *Orchestrator) AIEnabled() bool {
	return o.opts.UseAI && o.ai != nil
}

type rowResult struct {
	record  domain.Record
	failure *domain.RowFailure
}

// ExtractRows extracts every row, falling back to the rule extractor when
// the AI extractor fails. Records and failures come back in input order.
func (o *Orchestrator) ExtractRows(ctx context.Context, rows []string) ([]domain.Record, []domain.RowFailure) {
	results := make([]rowResult, len(rows))

	var g errgroup.Group
	g.SetLimit(o.opts.Concurrency)
	for i, row := range rows {
		g.Go(func() error {
			results[i] = o.extractRow(ctx, i+1, row)
			return nil
		})
	}
	_ = g.Wait()

	records := make([]domain.Record, 0, len(rows))
	var failures []domain.RowFailure
	for _, r := range results {
		if r.failure != nil {
			failures = append(failures, *r.failure)
			continue
		}
		records = append(records, r.record)
	}
	return records, failures
}

func (o *Orchestrator) extractRow(ctx context.Context, index int, row string) rowResult {
	var reasons []string

	if o.AIEnabled() {
		aiCtx, cancel := context.WithTimeout(ctx, o.opts.RowTimeout)
		fields, err := o.ai.Extract(aiCtx, row)
		cancel()
		if err == nil {
			return rowResult{record: domain.NewRecord(index, extract.SourceAI, normalize(fields))}
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s: %w", o.opts.RowTimeout, err)
		}
		log.Printf("pipeline ai-fallback row=%d error=%v", index, err)
		reasons = append(reasons, "ai: "+err.Error())
	}

	fields, err := o.rule.Extract(ctx, row)
	if err == nil {
		return rowResult{record: domain.NewRecord(index, extract.SourceRule, normalize(fields))}
	}
	reasons = append(reasons, "rule: "+err.Error())
	log.Printf("pipeline row-failed row=%d reason=%q", index, strings.Join(reasons, "; "))
	return rowResult{failure: &domain.RowFailure{Row: index, Text: row, Reason: strings.Join(reasons, "; ")}}
}

// normalize trims text fields and maps blanks to N/A. Duration keeps full
// precision; rounding happens at display time.
func normalize(f domain.FieldSet) domain.FieldSet {
	f.StartTime = orNA(f.StartTime)
	f.EndTime = orNA(f.EndTime)
	f.EquipmentDescription = orNA(f.EquipmentDescription)
	f.DepthInterval = orNA(f.DepthInterval)
	f.ConditionResult = orNA(f.ConditionResult)
	return f
}

func orNA(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.NotAvailable
	}
	return s
}

// Process runs the full pipeline over one pasted report. Only a report with
// no recognizable rows is an error; row failures are reported in the batch.
func (o *Orchestrator) Process(ctx context.Context, raw string, taxonomy domain.Taxonomy) (domain.Batch, error) {
	start := time.Now()
	runID := uuid.NewString()

	rows, err := segment.Rows(raw)
	if err != nil {
		log.Printf("pipeline run=%s segment error: %v", runID, err)
		return domain.Batch{}, err
	}

	taxonomy = taxonomy.Clone()
	meter := &extract.UsageMeter{}
	records, failures := o.ExtractRows(extract.WithUsageMeter(ctx, meter), rows)
	records = classify.Annotate(records, taxonomy)

	batch := domain.Batch{
		RunID:      runID,
		RowCount:   len(rows),
		Records:    records,
		Failures:   failures,
		Summary:    analytics.CalculateTotals(records, taxonomy),
		Efficiency: analytics.AnalyzeEfficiency(records),
		TokensUsed: meter.Total().TotalTokens(),
	}
	if batch.Failures == nil {
		batch.Failures = []domain.RowFailure{}
	}

	log.Printf("pipeline run=%s rows=%d records=%d failed=%d use_ai=%t tokens=%d elapsed_ms=%d",
		runID, len(rows), len(records), len(failures), o.AIEnabled(), batch.TokensUsed, time.Since(start).Milliseconds())
	return batch, nil
}
