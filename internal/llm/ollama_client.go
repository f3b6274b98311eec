package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type ollamaClient struct {
	host   string
	model  string
	client *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

func (c *ollamaClient) Simplify(ctx context.Context, text string) (string, error) {
	input, err := prepareInput(text)
	if err != nil {
		return "", err
	}
	return c.chat(ctx, []ollamaMessage{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: input},
	})
}

func (c *ollamaClient) chat(ctx context.Context, messages []ollamaMessage) (string, error) {
	buf, err := json.Marshal(ollamaChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  ollamaOptions{Temperature: Temperature, NumPredict: MaxOutputTokens},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", &StatusError{Service: "ollama", StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}

	var parsed struct {
		Message *ollamaMessage `json:"message"`
		Done    bool           `json:"done"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if parsed.Message == nil {
		return "", ErrNoResponse
	}
	content := strings.TrimSpace(parsed.Message.Content)
	if content == "" {
		return "", ErrNoResponse
	}
	return content, nil
}
