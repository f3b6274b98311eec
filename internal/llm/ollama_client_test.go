package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaClientSimplify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		var payload ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		if payload.Model != "qwen3-vl:8b" {
			t.Errorf("expected model qwen3-vl:8b, got %s", payload.Model)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" || payload.Messages[1].Content != "Cats are mammals." {
			t.Errorf("unexpected messages: %#v", payload.Messages)
		}
		if payload.Options.NumPredict != MaxOutputTokens || payload.Options.Temperature != Temperature {
			t.Errorf("unexpected options: %#v", payload.Options)
		}
		if payload.Stream {
			t.Error("expected streaming to be disabled")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":{"role":"assistant","content":"  Cats are animals.\nSummary: Cats.  "},"done":true}`))
	}))
	defer server.Close()

	client := &ollamaClient{
		host:   server.URL,
		model:  "qwen3-vl:8b",
		client: server.Client(),
	}

	result, err := client.Simplify(context.Background(), "  Cats are mammals.  ")
	if err != nil {
		t.Fatalf("simplify failed: %v", err)
	}
	if result != "Cats are animals.\nSummary: Cats." {
		t.Fatalf("unexpected simplify result: %q", result)
	}
}

func TestOllamaClientEmptyMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"done":true}`))
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "m", client: server.Client()}
	if _, err := client.Simplify(context.Background(), "text"); !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
}

func TestOllamaClientStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "m", client: server.Client()}
	_, err := client.Simplify(context.Background(), "text")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if !IsTransient(err) {
		t.Fatal("503 should be transient")
	}
}
