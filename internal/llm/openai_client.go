package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type openAIClient struct {
	client *openai.Client
	model  string
	base   string
}

func newOpenAIClient(cfg Config, httpClient *http.Client) *openAIClient {
	base := cfg.Endpoint
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = base
	clientConfig.HTTPClient = httpClient
	return &openAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  modelOrDefault(cfg.Model),
		base:   base,
	}
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("OpenAI-compatible (%s)", c.model)
}

func (c *openAIClient) Simplify(ctx context.Context, text string) (string, error) {
	input, err := prepareInput(text)
	if err != nil {
		return "", err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
		Temperature: Temperature,
		MaxTokens:   MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion via %s: %w", c.base, err)
	}
	for _, choice := range resp.Choices {
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, nil
		}
	}
	return "", ErrNoResponse
}
