package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGeminiClient(t *testing.T, handler http.HandlerFunc) *geminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := newGeminiClient(context.Background(), Config{APIKey: "test-key", Endpoint: server.URL + "/"}, server.Client())
	if err != nil {
		t.Fatalf("newGeminiClient: %v", err)
	}
	return client
}

func TestGeminiClientSimplify(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, DefaultModel+":generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "Summary:") {
			t.Errorf("system instruction missing from request: %s", body)
		}
		if !strings.Contains(string(body), "Photosynthesis converts light.") {
			t.Errorf("user text missing from request: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":" Plants use light.\nSummary: Plants eat light. "}]},"finishReason":"STOP"}]}`))
	})

	got, err := client.Simplify(context.Background(), "Photosynthesis converts light.")
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if got != "Plants use light.\nSummary: Plants eat light." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestGeminiClientNoCandidates(t *testing.T) {
	client := newTestGeminiClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	})
	if _, err := client.Simplify(context.Background(), "text"); !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
}
