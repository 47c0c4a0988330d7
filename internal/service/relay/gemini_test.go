package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
)

func TestGeminiForwardsContentsWithKeyInQuery(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]json.RawMessage

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hi"}]}}]}`))
	}))
	defer upstream.Close()

	client := NewGeminiClient(upstream.URL+"/", "gemini-2.0-flash", upstream.Client())
	data, err := client.GenerateContent(context.Background(), relaymodel.GenerateRequest{
		Contents: json.RawMessage(`[{"parts":[{"text":"hello"}]}]`),
		APIKey:   "secret-key",
	})
	if err != nil {
		t.Fatalf("GenerateContent err: %v", err)
	}

	if gotPath != "/models/gemini-2.0-flash:generateContent" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotKey != "secret-key" {
		t.Fatalf("expected key in query, got %q", gotKey)
	}
	if string(gotBody["contents"]) != `[{"parts":[{"text":"hello"}]}]` {
		t.Fatalf("contents not forwarded verbatim: %s", gotBody["contents"])
	}
	if _, ok := gotBody["apiKey"]; ok {
		t.Fatal("api key must not be forwarded in the body")
	}

	var resp relaymodel.GenerateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal err: %v", err)
	}
	if text, _ := resp.FirstText(); text != "hi" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestGeminiUpstreamErrorIsRelayed(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer upstream.Close()

	client := NewGeminiClient(upstream.URL, "gemini-2.0-flash", upstream.Client())
	_, err := client.GenerateContent(context.Background(), relaymodel.GenerateRequest{
		Contents: json.RawMessage(`[]`),
		APIKey:   "k",
	})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", upErr.StatusCode)
	}
	if upErr.Body != `{"error":{"message":"bad key"}}` {
		t.Fatalf("body not kept verbatim: %s", upErr.Body)
	}
	if upErr.Error() != "Gemini API error: 401" {
		t.Fatalf("unexpected message %q", upErr.Error())
	}
}

func TestGeminiRejectsInvalidJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer upstream.Close()

	client := NewGeminiClient(upstream.URL, "gemini-2.0-flash", upstream.Client())
	_, err := client.GenerateContent(context.Background(), relaymodel.GenerateRequest{
		Contents: json.RawMessage(`[]`),
		APIKey:   "k",
	})
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestGeminiValidation(t *testing.T) {
	client := NewGeminiClient("http://unused.invalid", "m", nil)

	if _, err := client.GenerateContent(context.Background(), relaymodel.GenerateRequest{Contents: json.RawMessage(`[]`)}); !errors.Is(err, ErrAPIKeyRequired) {
		t.Fatalf("expected ErrAPIKeyRequired, got %v", err)
	}
	if _, err := client.GenerateContent(context.Background(), relaymodel.GenerateRequest{APIKey: "k", Contents: json.RawMessage(`null`)}); !errors.Is(err, ErrContentsRequired) {
		t.Fatalf("expected ErrContentsRequired, got %v", err)
	}
}
