package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"

	"workoverbot/internal/config"
)

func TestOpenAICompleteParsesReply(t *testing.T) {
	var gotAuth string
	var gotReq openAIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"waktu_mulai\":\"06:00\"}"}}],"usage":{"prompt_tokens":12,"completion_tokens":8,"total_tokens":20}}`))
	}))
	defer srv.Close()

	c := NewOpenAI("sk-test", "gpt-4o-mini").WithBaseURL(srv.URL + "/")
	text, usage, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != `{"waktu_mulai":"06:00"}` {
		t.Fatalf("unexpected text %q", text)
	}
	if usage.TotalTokens() != 20 {
		t.Fatalf("expected 20 tokens, got %d", usage.TotalTokens())
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "user" {
		t.Fatalf("unexpected request messages %+v", gotReq.Messages)
	}
}

func TestOpenAICompleteReturnsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	_, _, err := NewOpenAI("sk-bad", "gpt-4o-mini").WithBaseURL(srv.URL).Complete(context.Background(), "sys", "user")
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestAnthropicCompleteReturnsFirstTextBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test","content":[{"type":"text","text":"{\"durasi_jam\":3.0}"}],"stop_reason":"end_turn","usage":{"input_tokens":30,"output_tokens":5}}`))
	}))
	defer srv.Close()

	c := NewAnthropic("key", "claude-test", option.WithBaseURL(srv.URL), option.WithMaxRetries(0))
	text, usage, err := c.Complete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != `{"durasi_jam":3.0}` {
		t.Fatalf("unexpected text %q", text)
	}
	if usage.InputTokens != 30 || usage.OutputTokens != 5 {
		t.Fatalf("unexpected usage %+v", usage)
	}
}

func TestNewReturnsNilWithoutCredential(t *testing.T) {
	c, err := New(context.Background(), config.Config{LLMProvider: config.ProviderOpenAI})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil client without credential, got %T", c)
	}
}

func TestNewPicksProviderDefaults(t *testing.T) {
	c, err := New(context.Background(), config.Config{LLMProvider: config.ProviderOpenAI, OpenAIAPIKey: "sk"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Provider() != "openai" || c.Model() != defaultOpenAIModel {
		t.Fatalf("unexpected client %s/%s", c.Provider(), c.Model())
	}

	c, err = New(context.Background(), config.Config{LLMProvider: config.ProviderAnthropic, AnthropicAPIKey: "k", LLMModel: "claude-x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Provider() != "anthropic" || c.Model() != "claude-x" {
		t.Fatalf("unexpected client %s/%s", c.Provider(), c.Model())
	}
}

func TestFormatTokenCount(t *testing.T) {
	cases := map[int64]string{950: "950", 1200: "1.2k", 3_400_000: "3.4M"}
	for in, want := range cases {
		if got := FormatTokenCount(in); got != want {
			t.Fatalf("FormatTokenCount(%d) = %q, want %q", in, got, want)
		}
	}
}
