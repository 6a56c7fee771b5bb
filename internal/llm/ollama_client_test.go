package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaClientGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var payload struct {
			Model   string         `json:"model"`
			Prompt  string         `json:"prompt"`
			System  string         `json:"system"`
			Stream  bool           `json:"stream"`
			Options map[string]any `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "qwen3-vl:8b" {
			t.Fatalf("expected model qwen3-vl:8b, got %s", payload.Model)
		}
		if !strings.Contains(payload.Prompt, "Selected Learning Style: Analogies") {
			t.Fatalf("prompt missing style: %s", payload.Prompt)
		}
		if payload.System != "teach" {
			t.Fatalf("expected system prompt, got %q", payload.System)
		}
		if payload.Stream {
			t.Fatal("expected streaming to be disabled")
		}
		if payload.Options["temperature"] != 0.7 {
			t.Fatalf("expected temperature option, got %v", payload.Options)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"Like a kitchen.","done":true,"done_reason":"stop"}`))
	}))
	defer server.Close()

	client := &ollamaClient{
		host:   server.URL,
		model:  "qwen3-vl:8b",
		client: server.Client(),
	}

	resp, err := client.Generate(context.Background(), Request{
		Prompt:            "Selected Learning Style: Analogies",
		SystemInstruction: "teach",
		Temperature:       0.7,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if resp.Text != "Like a kitchen." {
		t.Fatalf("unexpected text: %s", resp.Text)
	}
	if resp.Candidates[0].FinishReason != FinishStop {
		t.Fatalf("unexpected finish reason %q", resp.Candidates[0].FinishReason)
	}
}

func TestOllamaClientErrorIncludesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"server overloaded"}`))
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "m", client: server.Client()}
	_, err := client.Generate(context.Background(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "overloaded") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestOllamaClientLengthStop(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"","done":true,"done_reason":"length"}`))
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "m", client: server.Client()}
	resp, err := client.Generate(context.Background(), Request{Prompt: "x"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if resp.Candidates[0].FinishReason != "MAX_TOKENS" {
		t.Fatalf("unexpected finish reason %q", resp.Candidates[0].FinishReason)
	}
}
