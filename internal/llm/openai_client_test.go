package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func newTestOpenAIClient(t *testing.T, handler http.HandlerFunc) *openAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return newOpenAIClient(Config{APIKey: "test-key", Endpoint: server.URL + "/v1beta/openai/"}, server.Client())
}

func TestOpenAIClientSimplify(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/openai/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}
		var payload openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Model != DefaultModel {
			t.Errorf("expected default model, got %s", payload.Model)
		}
		if payload.MaxTokens != MaxOutputTokens || payload.Temperature != Temperature {
			t.Errorf("unexpected sampling: max=%d temp=%v", payload.MaxTokens, payload.Temperature)
		}
		if len(payload.Messages) != 2 {
			t.Errorf("expected system+user messages, got %d", len(payload.Messages))
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if payload.Messages[0].Role != openai.ChatMessageRoleSystem || payload.Messages[0].Content != SystemPrompt {
			t.Errorf("unexpected system message: %#v", payload.Messages[0])
		}
		if payload.Messages[1].Role != openai.ChatMessageRoleUser || payload.Messages[1].Content != "The feline reposed." {
			t.Errorf("unexpected user message: %#v", payload.Messages[1])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"\n The cat rested.\nSummary: A cat rests. \n"},"finish_reason":"stop"}]}`))
	})

	got, err := client.Simplify(context.Background(), "The feline reposed.")
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if got != "The cat rested.\nSummary: A cat rests." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestOpenAIClientNoChoices(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	})
	if _, err := client.Simplify(context.Background(), "text"); !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
}

func TestOpenAIClientAuthError(t *testing.T) {
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"API key not valid","type":"invalid_request_error"}}`))
	})
	_, err := client.Simplify(context.Background(), "text")
	if err == nil {
		t.Fatal("expected auth error")
	}
	if IsTransient(err) {
		t.Fatalf("auth errors must not be retried: %v", err)
	}
}

func TestOpenAIClientSkipsRequestForBlankText(t *testing.T) {
	var hits int32
	client := newTestOpenAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})
	if _, err := client.Simplify(context.Background(), "   "); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("blank text reached the service %d time(s)", hits)
	}
}
