package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slack-go/slack"

	"workoverbot/internal/config"
	"workoverbot/internal/domain"
	"workoverbot/internal/extract"
	"workoverbot/internal/httpapi"
	"workoverbot/internal/httpx"
	"workoverbot/internal/integrations/llm"
	slackbot "workoverbot/internal/integrations/slack"
	"workoverbot/internal/pipeline"
	"workoverbot/internal/taxonomy"
)

// Components are the long-lived pieces shared by every surface.
type Components struct {
	Pipeline *pipeline.Orchestrator
	Taxonomy domain.Taxonomy
	LLM      llm.Client // nil when no credential is configured
}

func (c Components) Close() {
	if c.LLM != nil {
		llm.Close(c.LLM)
	}
}

// Build loads the taxonomy, creates the LLM client and wires the pipeline.
func Build(ctx context.Context, cfg config.Config) (Components, error) {
	tax := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		loaded, err := taxonomy.Load(cfg.TaxonomyPath)
		if err != nil {
			return Components{}, err
		}
		tax = loaded
	}

	client, err := llm.New(ctx, cfg)
	if err != nil {
		return Components{}, fmt.Errorf("llm client: %w", err)
	}

	var ai extract.TextExtractor
	if client != nil {
		ai = extract.NewAIExtractor(client)
		log.Printf("llm configured provider=%s model=%s", client.Provider(), client.Model())
	}

	orch := pipeline.New(extract.NewRuleExtractor(), ai, pipeline.Options{
		UseAI:       cfg.UseAI,
		RowTimeout:  cfg.AIRowTimeout(),
		Concurrency: cfg.ExtractConcurrency,
	})
	return Components{Pipeline: orch, Taxonomy: tax, LLM: client}, nil
}

func Main() {
	cfg := config.LoadConfig()
	appliedHTTPTimeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	log.Printf(
		"Config loaded. LLMProvider=%s UseAI=%t AIConfigured=%t RowTimeout=%s Concurrency=%d TaxonomyPath=%s ExportDir=%s HTTPAddr=%s ExternalHTTPTimeout=%s",
		cfg.LLMProvider,
		cfg.UseAI,
		cfg.AIConfigured(),
		cfg.AIRowTimeout(),
		cfg.ExtractConcurrency,
		cfg.TaxonomyPath,
		cfg.ExportDir,
		cfg.HTTPAddr,
		appliedHTTPTimeout,
	)

	if cfg.HTTPAddr == "" && !cfg.SlackConfigured() {
		log.Fatalf("Nothing to run: set http_addr and/or slack_bot_token + slack_app_token")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := Build(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}
	defer comps.Close()
	log.Printf("Taxonomy loaded with %d operation types", len(comps.Taxonomy))

	if err := os.MkdirAll(cfg.ExportDir, 0755); err != nil {
		log.Fatalf("Failed to create export dir %s: %v", cfg.ExportDir, err)
	}
	log.Printf("Export dir: %s", cfg.ExportDir)

	errc := make(chan error, 2)

	var server *httpapi.Server
	if cfg.HTTPAddr != "" {
		server = httpapi.NewServer(cfg.HTTPAddr, httpapi.NewHandler(comps.Pipeline, comps.Taxonomy))
		go func() { errc <- server.Start() }()
	}

	if cfg.SlackConfigured() {
		api := slack.New(
			cfg.SlackBotToken,
			slack.OptionAppLevelToken(cfg.SlackAppToken),
		)
		bot := slackbot.NewBot(api, comps.Pipeline, comps.Taxonomy, cfg.ExportDir, comps.LLM)
		log.Println("Starting Workover Report Bot...")
		go func() { errc <- bot.Start() }()
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errc:
		if err != nil {
			log.Printf("Surface stopped with error: %v", err)
		}
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP shutdown error: %v", err)
		}
	}
}
