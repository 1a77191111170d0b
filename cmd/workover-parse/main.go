package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"workoverbot/internal/analytics"
	"workoverbot/internal/app"
	"workoverbot/internal/config"
	"workoverbot/internal/domain"
	"workoverbot/internal/export"
	"workoverbot/internal/httpx"
	"workoverbot/internal/integrations/llm"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
// 2 means the export was written but some rows failed.
func run() int {
	var (
		in     = flag.String("in", "", "report text file (default: stdin)")
		format = flag.String("format", export.FormatXLSX, "export format: csv, xlsx or json")
		out    = flag.String("out", "", "export directory (default: export_dir from config)")
		useAI  = flag.Bool("ai", false, "extract with the configured LLM first, falling back to rules")
	)
	flag.Parse()

	exportFormat, err := export.ParseFormat(*format)
	if err != nil {
		printError("Error: %v\n", err)
		return 1
	}

	raw, err := readInput(*in)
	if err != nil {
		printError("Error: reading input: %v\n", err)
		return 1
	}

	cfg := config.LoadConfig()
	httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	if *out == "" {
		*out = cfg.ExportDir
	}

	ctx := context.Background()
	comps, err := app.Build(ctx, cfg)
	if err != nil {
		printError("Error: building pipeline: %v\n", err)
		return 1
	}
	defer comps.Close()

	orch := comps.Pipeline.WithUseAI(*useAI)
	if *useAI && !orch.AIEnabled() {
		log.Printf("WARNING: -ai set but no LLM credential for provider=%s; using rule-based extraction", cfg.LLMProvider)
	}

	batch, err := orch.Process(ctx, raw, comps.Taxonomy)
	if err != nil {
		printError("Error: %v\n", err)
		return 1
	}

	data, err := export.Render(exportFormat, batch)
	if err != nil {
		printError("Error: %v\n", err)
		return 1
	}
	path, err := export.WriteFile(*out, export.Filename(exportFormat, time.Now()), data)
	if err != nil {
		printError("Error: %v\n", err)
		return 1
	}

	printSummary(os.Stdout, batch)
	fmt.Printf("Export written to %s\n", path)
	if len(batch.Failures) > 0 {
		return 2
	}
	return 0
}

func readInput(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func printSummary(w io.Writer, batch domain.Batch) {
	fmt.Fprintf(w, "Run %s: %d rows, %d records, %d failed\n", batch.RunID, batch.RowCount, len(batch.Records), len(batch.Failures))
	fmt.Fprintf(w, "Total duration: %.1f h\n", batch.Summary.TotalDurationHours)
	if pct, ok := analytics.EfficiencyPercent(batch.Efficiency); ok {
		fmt.Fprintf(w, "Efficiency: %.1f%%\n", pct)
	}
	if batch.TokensUsed > 0 {
		fmt.Fprintf(w, "Tokens used: %s\n", llm.FormatTokenCount(batch.TokensUsed))
	}
	for _, label := range batch.Summary.OperationOrder {
		fmt.Fprintf(w, "  %-20s %d\n", label, batch.Summary.OperationCounts[label])
	}
	for _, f := range batch.Failures {
		fmt.Fprintf(w, "  row %d failed: %s\n", f.Row, f.Reason)
	}
}
