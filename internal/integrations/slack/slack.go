package slackbot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"workoverbot/internal/analytics"
	"workoverbot/internal/domain"
	"workoverbot/internal/export"
	"workoverbot/internal/integrations/llm"
	"workoverbot/internal/pipeline"
	"workoverbot/internal/segment"
	"workoverbot/internal/taxonomy"
)

const (
	commandWorkover     = "/workover"
	commandWorkoverHelp = "/workover-help"

	processTimeout      = 5 * time.Minute
	longOperationsShown = 3
	failuresShown       = 5
)

type Bot struct {
	api       *slack.Client
	pipeline  *pipeline.Orchestrator
	taxonomy  domain.Taxonomy
	exportDir string
	model     string // "" when no LLM client is configured
}

func NewBot(api *slack.Client, orch *pipeline.Orchestrator, tax domain.Taxonomy, exportDir string, client llm.Client) *Bot {
	b := &Bot{api: api, pipeline: orch, taxonomy: tax, exportDir: exportDir}
	if client != nil {
		b.model = client.Provider() + "/" + client.Model()
	}
	return b
}

func (b *Bot) Start() error {
	client := socketmode.New(b.api)

	go func() {
		for evt := range client.Events {
			switch evt.Type {
			case socketmode.EventTypeSlashCommand:
				client.Ack(*evt.Request)
				cmd, ok := evt.Data.(slack.SlashCommand)
				if !ok {
					continue
				}
				log.Printf("Slash command received: %s from user=%s channel=%s", cmd.Command, cmd.UserID, cmd.ChannelID)
				go b.handleSlashCommand(cmd)
			}
		}
	}()

	log.Println("Slack bot connected via Socket Mode")
	return client.Run()
}

func (b *Bot) handleSlashCommand(cmd slack.SlashCommand) {
	switch cmd.Command {
	case commandWorkover:
		b.handleWorkover(cmd)
	case commandWorkoverHelp:
		b.postEphemeral(cmd, helpText(b.taxonomy))
	}
}

func (b *Bot) handleWorkover(cmd slack.SlashCommand) {
	useAI, text := parseWorkoverArgs(cmd.Text)
	if strings.TrimSpace(text) == "" {
		b.postEphemeral(cmd, "Paste a daily report after the command. See `/workover-help`.")
		return
	}

	orch := b.pipeline
	if useAI != nil {
		orch = orch.WithUseAI(*useAI)
	}
	b.postEphemeral(cmd, "Processing report...")

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()
	batch, err := orch.Process(ctx, text, b.taxonomy)
	if err != nil {
		log.Printf("workover process error user=%s: %v", cmd.UserID, err)
		if errors.Is(err, segment.ErrNoRows) {
			b.postEphemeral(cmd, "No operation rows found. Each row must start with `HH:MM HH:MM <duration>`.")
			return
		}
		b.postEphemeral(cmd, fmt.Sprintf("Error processing report: %v", err))
		return
	}

	b.postEphemeral(cmd, renderSummary(batch, orch.AIEnabled(), b.model))
	log.Printf("workover done run=%s user=%s records=%d failed=%d", batch.RunID, cmd.UserID, len(batch.Records), len(batch.Failures))

	if len(batch.Records) > 0 {
		b.uploadExport(cmd, batch)
	}
}

func (b *Bot) uploadExport(cmd slack.SlashCommand, batch domain.Batch) {
	data, err := export.XLSX(batch)
	if err != nil {
		log.Printf("workover export error run=%s: %v", batch.RunID, err)
		b.postEphemeral(cmd, "Error building the Excel export.")
		return
	}
	filePath, err := export.WriteFile(b.exportDir, export.Filename(export.FormatXLSX, time.Now()), data)
	if err != nil {
		log.Printf("workover export write error run=%s: %v", batch.RunID, err)
		b.postEphemeral(cmd, "Error saving the Excel export.")
		return
	}
	fi, err := os.Stat(filePath)
	if err != nil {
		log.Printf("workover export stat error: %v", err)
		return
	}

	_, err = b.api.UploadFileV2(slack.UploadFileV2Parameters{
		File:           filePath,
		FileSize:       int(fi.Size()),
		Filename:       filepath.Base(filePath),
		Channel:        cmd.ChannelID,
		Title:          "Workover data",
		InitialComment: fmt.Sprintf("Parsed %d operations (%d failed rows)", len(batch.Records), len(batch.Failures)),
	})
	if err != nil {
		log.Printf("Error uploading export file: %v", err)
		b.postEphemeral(cmd, "Error uploading export file to channel. Check bot permissions.")
	}
}

func (b *Bot) postEphemeral(cmd slack.SlashCommand, text string) {
	_, err := b.api.PostEphemeral(cmd.ChannelID, cmd.UserID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("Error posting ephemeral: %v", err)
	}
}

// parseWorkoverArgs splits an optional leading "ai" or "rule" mode from the
// pasted report. useAI is nil when no mode was given.
func parseWorkoverArgs(text string) (*bool, string) {
	trimmed := strings.TrimSpace(text)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return nil, ""
	}
	var useAI bool
	switch strings.ToLower(fields[0]) {
	case "ai":
		useAI = true
	case "rule":
		useAI = false
	default:
		return nil, trimmed
	}
	return &useAI, strings.TrimSpace(trimmed[len(fields[0]):])
}

func renderSummary(batch domain.Batch, aiUsed bool, model string) string {
	var sb strings.Builder
	mode := "rule-based"
	if aiUsed {
		mode = "AI"
		if model != "" {
			mode += " (" + model + ")"
		}
	}
	fmt.Fprintf(&sb, "*Workover report parsed* (%s)\n", mode)
	fmt.Fprintf(&sb, "• Total operasi: %d of %d rows\n", batch.Summary.TotalOperations, batch.RowCount)
	fmt.Fprintf(&sb, "• Total durasi: %.1f jam\n", batch.Summary.TotalDurationHours)
	if pct, ok := analytics.EfficiencyPercent(batch.Efficiency); ok {
		fmt.Fprintf(&sb, "• Efisiensi: %.1f%% (produktif %.1f jam, tunggu %.1f jam)\n", pct, batch.Efficiency.ProductiveTime, batch.Efficiency.WaitingTime)
	}
	if batch.TokensUsed > 0 {
		fmt.Fprintf(&sb, "• Tokens used: %s\n", llm.FormatTokenCount(batch.TokensUsed))
	}

	if len(batch.Summary.OperationOrder) > 0 {
		sb.WriteString("\n*Distribusi operasi*\n")
		for _, label := range batch.Summary.OperationOrder {
			fmt.Fprintf(&sb, "• %s: %d\n", label, batch.Summary.OperationCounts[label])
		}
	}

	if n := len(batch.Efficiency.LongOperations); n > 0 {
		fmt.Fprintf(&sb, "\n:warning: *Operasi panjang*: %d operasi > 4 jam\n", n)
		for i, op := range batch.Efficiency.LongOperations {
			if i == longOperationsShown {
				break
			}
			// op.Row counts successful records, not input rows.
			fmt.Fprintf(&sb, "• Operasi %d: %s (%.1f jam)\n", op.Row, op.Operation, op.Duration)
		}
	}

	if n := len(batch.Failures); n > 0 {
		fmt.Fprintf(&sb, "\n:x: *%d baris gagal diproses*\n", n)
		for i, f := range batch.Failures {
			if i == failuresShown {
				fmt.Fprintf(&sb, "• ... and %d more\n", n-failuresShown)
				break
			}
			fmt.Fprintf(&sb, "• Baris %d: %s\n", f.Row, f.Reason)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func helpText(tax domain.Taxonomy) string {
	lines := []string{
		"*Workover Parser Commands*",
		"",
		"`/workover [ai|rule] <pasted report>` — Parse a daily drilling/workover report.",
		">Each operation must start with `HH:MM HH:MM <duration>`, e.g.",
		">```/workover 06:00 09:00 3.0 Lanjutkan BAILING OF SAND. B.O.S F/ 611' TO 618'```",
		">`ai` forces AI extraction, `rule` forces rule-based extraction.",
		"",
		"`/workover-help` — Show this help.",
		"",
		"*Operation types*",
	}
	for _, l := range taxonomy.Lines(tax) {
		lines = append(lines, "• "+l)
	}
	return strings.Join(lines, "\n")
}
