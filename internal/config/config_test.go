package config

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SLACK_BOT_TOKEN", "SLACK_APP_TOKEN", "HTTP_ADDR", "USE_AI",
		"LLM_PROVIDER", "LLM_MODEL", "ANTHROPIC_API_KEY", "OPENAI_API_KEY",
		"GEMINI_PROJECT_ID", "GEMINI_REGION", "AI_ROW_TIMEOUT_SECONDS",
		"EXTRACT_CONCURRENCY", "TAXONOMY_PATH", "EXPORT_DIR",
		"EXTERNAL_HTTP_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing-config.yaml"))
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":8080")

	cfg := LoadConfig()

	if cfg.LLMProvider != ProviderAnthropic {
		t.Fatalf("unexpected provider default: %q", cfg.LLMProvider)
	}
	if cfg.AIRowTimeout() != 30*time.Second {
		t.Fatalf("unexpected row timeout default: %s", cfg.AIRowTimeout())
	}
	if cfg.ExtractConcurrency != 4 {
		t.Fatalf("unexpected concurrency default: %d", cfg.ExtractConcurrency)
	}
	if cfg.ExportDir != "./exports" {
		t.Fatalf("unexpected export dir default: %q", cfg.ExportDir)
	}
	if cfg.ExternalHTTPTimeoutSeconds != int(defaultExternalHTTPTimeout/time.Second) {
		t.Fatalf("unexpected external HTTP timeout default: %d", cfg.ExternalHTTPTimeoutSeconds)
	}
	if cfg.GeminiRegion != "us-central1" {
		t.Fatalf("unexpected gemini region default: %q", cfg.GeminiRegion)
	}
	if cfg.UseAI || cfg.AIConfigured() {
		t.Fatalf("AI should be off without a credential")
	}
	if cfg.SlackConfigured() {
		t.Fatalf("slack should not be configured")
	}
}

func TestUseAIDefaultsToCredentialPresence(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := LoadConfig()
	if cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("provider should be normalized, got %q", cfg.LLMProvider)
	}
	if !cfg.UseAI {
		t.Fatal("expected use_ai to default to true when a credential is present")
	}

	t.Setenv("USE_AI", "false")
	if LoadConfig().UseAI {
		t.Fatal("explicit USE_AI=false must win")
	}
}

func TestLoadConfigYAMLAndEnvOverride(t *testing.T) {
	clearConfigEnv(t)
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
slack_bot_token: "yaml-bot"
slack_app_token: "yaml-app"
use_ai: false
llm_provider: "gemini"
gemini_project_id: "proj-1"
extract_concurrency: 8
export_dir: "/tmp/yaml-exports"
external_http_timeout_seconds: 75
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_PATH", cfgPath)
	t.Setenv("GEMINI_REGION", "asia-southeast2")
	t.Setenv("EXTERNAL_HTTP_TIMEOUT_SECONDS", "120")

	cfg := LoadConfig()

	if !cfg.SlackConfigured() {
		t.Fatal("expected slack tokens from yaml")
	}
	if cfg.UseAI {
		t.Fatal("expected use_ai=false from yaml")
	}
	if !cfg.AIConfigured() {
		t.Fatal("expected gemini to be configured from project id")
	}
	if cfg.GeminiRegion != "asia-southeast2" {
		t.Fatalf("expected region from env override, got %q", cfg.GeminiRegion)
	}
	if cfg.ExtractConcurrency != 8 {
		t.Fatalf("expected concurrency from yaml, got %d", cfg.ExtractConcurrency)
	}
	if cfg.ExportDir != "/tmp/yaml-exports" {
		t.Fatalf("expected export dir from yaml, got %q", cfg.ExportDir)
	}
	if cfg.ExternalHTTPTimeoutSeconds != 120 {
		t.Fatalf("expected external HTTP timeout from env override, got %d", cfg.ExternalHTTPTimeoutSeconds)
	}
}

func TestEnvOverrideHelpers(t *testing.T) {
	s := "initial"
	t.Setenv("WB_TEST_STR", "value")
	envOverride(&s, "WB_TEST_STR")
	if s != "value" {
		t.Fatalf("envOverride failed, got %q", s)
	}

	i := 1
	t.Setenv("WB_TEST_INT", "42")
	envOverrideInt(&i, "WB_TEST_INT")
	if i != 42 {
		t.Fatalf("envOverrideInt failed, got %d", i)
	}

	t.Setenv("WB_TEST_EMPTY", "")
	envOverride(&s, "WB_TEST_EMPTY")
	if s != "value" {
		t.Fatalf("empty env must not override, got %q", s)
	}
}

func runFatalSubprocess(t *testing.T, testName, marker string) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run="+testName)
	cmd.Env = append(os.Environ(), marker+"=1")
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected subprocess to exit with failure")
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got: %v", err)
	}
}

func TestLoadConfigInvalidProviderFatal(t *testing.T) {
	if os.Getenv("TEST_INVALID_PROVIDER_FATAL") == "1" {
		_ = os.Setenv("CONFIG_PATH", filepath.Join(os.TempDir(), "no-config.yaml"))
		_ = os.Setenv("LLM_PROVIDER", "mistral")
		LoadConfig()
		return
	}
	runFatalSubprocess(t, "TestLoadConfigInvalidProviderFatal", "TEST_INVALID_PROVIDER_FATAL")
}

func TestLoadConfigInvalidConcurrencyFatal(t *testing.T) {
	if os.Getenv("TEST_INVALID_CONCURRENCY_FATAL") == "1" {
		_ = os.Setenv("CONFIG_PATH", filepath.Join(os.TempDir(), "no-config.yaml"))
		_ = os.Setenv("LLM_PROVIDER", "anthropic")
		_ = os.Setenv("EXTRACT_CONCURRENCY", "64")
		LoadConfig()
		return
	}
	runFatalSubprocess(t, "TestLoadConfigInvalidConcurrencyFatal", "TEST_INVALID_CONCURRENCY_FATAL")
}

func TestLoadConfigMissingTaxonomyFatal(t *testing.T) {
	if os.Getenv("TEST_MISSING_TAXONOMY_FATAL") == "1" {
		_ = os.Setenv("CONFIG_PATH", filepath.Join(os.TempDir(), "no-config.yaml"))
		_ = os.Setenv("LLM_PROVIDER", "anthropic")
		_ = os.Setenv("TAXONOMY_PATH", filepath.Join(os.TempDir(), "definitely-missing-taxonomy.yaml"))
		LoadConfig()
		return
	}
	runFatalSubprocess(t, "TestLoadConfigMissingTaxonomyFatal", "TEST_MISSING_TAXONOMY_FATAL")
}
