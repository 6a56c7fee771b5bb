package llm

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestPickHTTPClientHonorsCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	if got := pickHTTPClient(custom); got != custom {
		t.Fatalf("expected custom client to be returned")
	}
}

func TestPickHTTPClientUsesLongerTimeout(t *testing.T) {
	client := pickHTTPClient(nil)
	if client.Timeout != defaultLLMHTTPTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultLLMHTTPTimeout, client.Timeout)
	}
}

func TestNewFromEnvDefaultsToGemini(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")

	gen, err := NewFromEnv(Config{})
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	client, ok := gen.(*geminiClient)
	if !ok {
		t.Fatalf("expected gemini client, got %T", gen)
	}
	if client.apiKey != "legacy-key" {
		t.Fatalf("expected API_KEY fallback, got %q", client.apiKey)
	}
	if gen.Model() != DefaultGeminiModel {
		t.Fatalf("got model %q want %q", gen.Model(), DefaultGeminiModel)
	}
	if client.base != defaultGeminiEndpoint {
		t.Fatalf("got endpoint %q", client.base)
	}
}

func TestNewFromEnvMissingKeyFailsPerCall(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	gen, err := NewFromEnv(Config{Provider: "Gemini"})
	if err != nil {
		t.Fatalf("missing key should not fail construction: %v", err)
	}
	_, err = gen.Generate(context.Background(), Request{Prompt: "hi"})
	if err == nil || !strings.Contains(strings.ToLower(err.Error()), "api key") {
		t.Fatalf("expected api key error, got %v", err)
	}
	if !strings.Contains(gen.Name(), "no API key") {
		t.Fatalf("unexpected name %q", gen.Name())
	}
}

func TestNewFromEnvOllamaUsesHostEnv(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434/")
	t.Setenv("OLLAMA_MODEL", "")

	gen, err := NewFromEnv(Config{Provider: ProviderOllama})
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	client := gen.(*ollamaClient)
	if client.host != "http://gpu-box:11434" {
		t.Fatalf("got host %q", client.host)
	}
	if client.model != defaultOllamaModel {
		t.Fatalf("got model %q", client.model)
	}
}

func TestNewFromEnvRejectsUnknownProvider(t *testing.T) {
	if _, err := NewFromEnv(Config{Provider: "claude-on-a-toaster"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNormalizeFinishReason(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"stop", "STOP"},
		{"STOP", "STOP"},
		{"length", "MAX_TOKENS"},
		{"content_filter", "SAFETY"},
		{"RECITATION", "RECITATION"},
	}
	for _, tt := range tests {
		if got := normalizeFinishReason(tt.in); got != tt.want {
			t.Fatalf("normalizeFinishReason(%q) got %q want %q", tt.in, got, tt.want)
		}
	}
}
