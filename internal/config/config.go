package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultExternalHTTPTimeout = 90 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

type Config struct {
	SlackBotToken string `yaml:"slack_bot_token"`
	SlackAppToken string `yaml:"slack_app_token"`
	HTTPAddr      string `yaml:"http_addr"`

	// UseAISetting is the raw use_ai key; nil means "not set".
	UseAISetting *bool `yaml:"use_ai"`

	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	GeminiProjectID string `yaml:"gemini_project_id"`
	GeminiRegion    string `yaml:"gemini_region"`

	AIRowTimeoutSeconds        int    `yaml:"ai_row_timeout_seconds"`
	ExtractConcurrency         int    `yaml:"extract_concurrency"`
	TaxonomyPath               string `yaml:"taxonomy_path"`
	ExportDir                  string `yaml:"export_dir"`
	ExternalHTTPTimeoutSeconds int    `yaml:"external_http_timeout_seconds"`

	UseAI bool `yaml:"-"` // resolved from UseAISetting and credentials
}

func LoadConfig() Config {
	var cfg Config

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatalf("Error parsing %s: %v", configPath, err)
		}
		log.Printf("Loaded config from %s", configPath)
	}

	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.SlackAppToken, "SLACK_APP_TOKEN")
	envOverride(&cfg.HTTPAddr, "HTTP_ADDR")
	if val := os.Getenv("USE_AI"); val != "" {
		b := strings.EqualFold(val, "true") || val == "1"
		cfg.UseAISetting = &b
	}
	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.GeminiProjectID, "GEMINI_PROJECT_ID")
	envOverride(&cfg.GeminiRegion, "GEMINI_REGION")
	envOverrideInt(&cfg.AIRowTimeoutSeconds, "AI_ROW_TIMEOUT_SECONDS")
	envOverrideInt(&cfg.ExtractConcurrency, "EXTRACT_CONCURRENCY")
	envOverride(&cfg.TaxonomyPath, "TAXONOMY_PATH")
	envOverride(&cfg.ExportDir, "EXPORT_DIR")
	envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS")

	applyDefaults(&cfg)
	validate(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderAnthropic
	}
	if cfg.GeminiRegion == "" {
		cfg.GeminiRegion = "us-central1"
	}
	if cfg.AIRowTimeoutSeconds == 0 {
		cfg.AIRowTimeoutSeconds = 30
	}
	if cfg.ExtractConcurrency == 0 {
		cfg.ExtractConcurrency = 4
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "./exports"
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}

	if cfg.UseAISetting != nil {
		cfg.UseAI = *cfg.UseAISetting
	} else {
		cfg.UseAI = cfg.AIConfigured()
	}
}

func validate(cfg Config) {
	switch cfg.LLMProvider {
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
	default:
		log.Fatalf("llm_provider must be 'anthropic', 'openai' or 'gemini', got '%s'", cfg.LLMProvider)
	}
	if cfg.UseAI && !cfg.AIConfigured() {
		log.Printf("WARNING: use_ai is enabled but no credential is set for llm_provider=%s; rows will use rule-based extraction only.", cfg.LLMProvider)
	}
	if cfg.AIRowTimeoutSeconds < 1 {
		log.Fatalf("invalid ai_row_timeout_seconds '%d': must be >= 1", cfg.AIRowTimeoutSeconds)
	}
	if cfg.ExtractConcurrency < 1 || cfg.ExtractConcurrency > 32 {
		log.Fatalf("invalid extract_concurrency '%d': must be between 1 and 32", cfg.ExtractConcurrency)
	}
	if cfg.ExternalHTTPTimeoutSeconds < 5 {
		log.Fatalf("invalid external_http_timeout_seconds '%d': must be >= 5", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.TaxonomyPath != "" {
		if _, err := os.Stat(cfg.TaxonomyPath); err != nil {
			log.Fatalf("invalid taxonomy_path '%s': %v", cfg.TaxonomyPath, err)
		}
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %s '%s': %v", envKey, val, err)
		}
		*field = parsed
	}
}

// AIConfigured reports whether the selected provider has a credential.
func (c Config) AIConfigured() bool {
	switch c.LLMProvider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderGemini:
		return c.GeminiProjectID != ""
	}
	return false
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.SlackAppToken != ""
}

func (c Config) AIRowTimeout() time.Duration {
	return time.Duration(c.AIRowTimeoutSeconds) * time.Second
}
