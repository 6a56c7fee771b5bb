package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	DefaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOllamaModel = "ministral-3:latest"

	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com"
	defaultOllamaEndpoint = "http://localhost:11434"
)

const defaultLLMHTTPTimeout = 3 * time.Minute

// FinishStop is the finish reason reported for a normal completion.
const FinishStop = "STOP"

// Config describes how to build a generator.
type Config struct {
	Provider   string
	Model      string
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// Request is a single generation call.
type Request struct {
	Model             string
	Prompt            string
	SystemInstruction string
	Temperature       float64
}

// Candidate describes one completion alternative.
type Candidate struct {
	FinishReason string
}

// Response carries the generated text and the candidates it came from.
type Response struct {
	Text       string
	Candidates []Candidate
}

// Generator sends prompts to a text generation service.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	// Model is the default model used when a Request leaves it blank.
	Model() string
	Name() string
}

// NewFromEnv fills empty Config fields from the environment and builds a
// generator. A missing API key is not fatal: the returned generator reports
// it on every call.
func NewFromEnv(cfg Config) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	switch provider {
	case ProviderGemini:
		key := firstNonEmpty(cfg.APIKey, os.Getenv("GEMINI_API_KEY"), os.Getenv("API_KEY"))
		model := firstNonEmpty(cfg.Model, DefaultGeminiModel)
		if key == "" {
			return missingKey{provider: provider, model: model, hint: "GEMINI_API_KEY"}, nil
		}
		return &geminiClient{
			base:   strings.TrimRight(firstNonEmpty(cfg.Endpoint, defaultGeminiEndpoint), "/"),
			apiKey: key,
			model:  model,
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	case ProviderOpenAI:
		key := firstNonEmpty(cfg.APIKey, os.Getenv("OPENAI_API_KEY"))
		model := firstNonEmpty(cfg.Model, os.Getenv("OPENAI_MODEL"), defaultOpenAIModel)
		if key == "" {
			return missingKey{provider: provider, model: model, hint: "OPENAI_API_KEY"}, nil
		}
		return newOpenAIClient(key, firstNonEmpty(cfg.Endpoint, os.Getenv("OPENAI_BASE_URL")), model, pickHTTPClient(cfg.HTTPClient)), nil
	case ProviderOllama:
		host := cfg.Endpoint
		if host == "" {
			host = firstNonEmpty(os.Getenv("OLLAMA_HOST"), defaultOllamaEndpoint)
		}
		return &ollamaClient{
			host:   strings.TrimRight(host, "/"),
			model:  firstNonEmpty(cfg.Model, os.Getenv("OLLAMA_MODEL"), defaultOllamaModel),
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q (want %s, %s or %s)", cfg.Provider, ProviderGemini, ProviderOpenAI, ProviderOllama)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Allow longer-running generations and rely on the caller's context for cancellation.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}

// missingKey stands in for a provider whose credentials are absent.
type missingKey struct {
	provider string
	model    string
	hint     string
}

func (m missingKey) Generate(context.Context, Request) (Response, error) {
	return Response{}, fmt.Errorf("API key not found in environment variables (set %s)", m.hint)
}

func (m missingKey) Model() string { return m.model }

func (m missingKey) Name() string {
	return fmt.Sprintf("%s (%s, no API key)", m.provider, m.model)
}

// normalizeFinishReason maps provider specific reasons onto the upper-case
// vocabulary where STOP means normal completion.
func normalizeFinishReason(reason string) string {
	switch strings.ToLower(strings.TrimSpace(reason)) {
	case "":
		return ""
	case "stop", "end_turn":
		return FinishStop
	case "length", "max_tokens":
		return "MAX_TOKENS"
	case "content_filter", "safety":
		return "SAFETY"
	default:
		return strings.ToUpper(reason)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
