package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	genai "google.golang.org/genai"
)

type geminiClient struct {
	client *genai.Client
	model  string
}

func newGeminiClient(ctx context.Context, cfg Config, httpClient *http.Client) (*geminiClient, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.Endpoint != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.Endpoint
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiClient{client: client, model: modelOrDefault(cfg.Model)}, nil
}

func (c *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.model)
}

func (c *geminiClient) Simplify(ctx context.Context, text string) (string, error) {
	input, err := prepareInput(text)
	if err != nil {
		return "", err
	}

	res, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{
		genai.NewContentFromText(input, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
		MaxOutputTokens:   MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if res == nil {
		return "", ErrNoResponse
	}
	content := strings.TrimSpace(res.Text())
	if content == "" {
		return "", ErrNoResponse
	}
	return content, nil
}
