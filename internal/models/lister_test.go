package models

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

const modelsResponse = `{"object":"list","data":[
	{"id":"gpt-4o-mini","object":"model","created":1,"owned_by":"openai"},
	{"id":"tts-1","object":"model","created":1,"owned_by":"openai"},
	{"id":"dall-e-3","object":"model","created":1,"owned_by":"openai"},
	{"id":"gpt-4o","object":"model","created":1,"owned_by":"openai"},
	{"id":"text-embedding-3-small","object":"model","created":1,"owned_by":"openai"},
	{"id":"o3-mini","object":"model","created":1,"owned_by":"openai"},
	{"id":"gpt-4o-audio-preview","object":"model","created":1,"owned_by":"openai"}
]}`

func newModelsServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(modelsResponse))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewLister(t *testing.T) {
	lister := NewLister("test-api-key", "")

	if lister == nil {
		t.Fatal("NewLister returned nil")
	}

	if lister.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", lister.apiKey)
	}

	if lister.client == nil {
		t.Error("OpenAI client not initialized")
	}
}

func TestChatModels_NoAPIKey(t *testing.T) {
	lister := NewLister("", "")

	_, err := lister.ChatModels(context.Background())
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}

	expectedError := "OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .transcheck.yaml"
	if err.Error() != expectedError {
		t.Errorf("Expected error '%s', got: %v", expectedError, err)
	}
}

func TestChatModels(t *testing.T) {
	server := newModelsServer(t)
	lister := NewLister("test-key", server.URL+"/v1")

	got, err := lister.ChatModels(context.Background())
	if err != nil {
		t.Fatalf("ChatModels failed: %v", err)
	}

	want := []string{"gpt-4o", "gpt-4o-mini", "o3-mini"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Model %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestPrint(t *testing.T) {
	server := newModelsServer(t)
	lister := NewLister("test-key", server.URL+"/v1")

	var buf bytes.Buffer
	if err := lister.Print(context.Background(), &buf, "gpt-4o-mini"); err != nil {
		t.Fatalf("Print failed: %v", err)
	}

	want := "Chat/Translation Models:\n  gpt-4o\n * gpt-4o-mini\n  o3-mini\n"
	if buf.String() != want {
		t.Errorf("Unexpected output:\n%s", buf.String())
	}
}

func TestChatModels_Integration(t *testing.T) {
	// Skip if no API key
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	if _, err := NewLister(apiKey, "").ChatModels(context.Background()); err != nil {
		t.Errorf("ChatModels failed: %v", err)
	}
}
