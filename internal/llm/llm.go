package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// DefaultModel matches the hosted Gemini model the reader was tuned against.
	DefaultModel = "gemini-2.0-flash"
	// DefaultBaseURL is Gemini's OpenAI-compatible surface.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "llama3.2:latest"

	// Temperature stays low so rewrites remain literal.
	Temperature = 0.2
	// MaxOutputTokens caps every generated rewrite.
	MaxOutputTokens = 700

	// Roughly 4 chars/token; keeps pasted documents well inside the context window.
	maxSimplifyChars = 60_000
)

const defaultLLMHTTPTimeout = 90 * time.Second

// Provider names a backend implementation.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// ParseProvider normalizes user input; the empty string selects ProviderOpenAI.
func ParseProvider(value string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(value))) {
	case "", ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderOllama:
		return ProviderOllama, nil
	default:
		return "", fmt.Errorf("unknown llm provider %q (want openai, gemini or ollama)", value)
	}
}

// RequiresAPIKey reports whether the provider talks to an authenticated service.
func (p Provider) RequiresAPIKey() bool {
	return p != ProviderOllama
}

// Config describes how to build an LLM client.
type Config struct {
	Provider   Provider
	APIKey     string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

// Client rewrites text for dyslexic readers.
type Client interface {
	Simplify(ctx context.Context, text string) (string, error)
	Name() string
}

var (
	// ErrNoResponse is returned when the service answered without usable content.
	ErrNoResponse = errors.New("llm: no response")
	// ErrEmptyInput is returned before any request is made for blank text.
	ErrEmptyInput = errors.New("llm: input text is empty")
)

// New builds the client for cfg.Provider.
func New(ctx context.Context, cfg Config) (Client, error) {
	provider, err := ParseProvider(string(cfg.Provider))
	if err != nil {
		return nil, err
	}
	if provider.RequiresAPIKey() && strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%s provider requires an API key", provider)
	}
	httpClient := pickHTTPClient(cfg.HTTPClient)

	switch provider {
	case ProviderGemini:
		return newGeminiClient(ctx, cfg, httpClient)
	case ProviderOllama:
		host := strings.TrimRight(cfg.Endpoint, "/")
		if host == "" {
			host = defaultOllamaHost
		}
		model := cfg.Model
		if model == "" {
			model = defaultOllamaModel
		}
		return &ollamaClient{host: host, model: model, client: httpClient}, nil
	default:
		return newOpenAIClient(cfg, httpClient), nil
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{
		Timeout:   defaultLLMHTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func modelOrDefault(model string) string {
	if strings.TrimSpace(model) == "" {
		return DefaultModel
	}
	return model
}
