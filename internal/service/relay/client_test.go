package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
)

func TestClientPostsToRelayEndpoints(t *testing.T) {
	var paths []string
	var synth relaymodel.SynthesisRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/gemini":
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		default:
			_ = json.NewDecoder(r.Body).Decode(&synth)
			w.Header().Set("Content-Type", "audio/mpeg")
			_, _ = w.Write([]byte("mp3"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	if _, err := client.GenerateContent(context.Background(), relaymodel.GenerateRequest{Contents: json.RawMessage(`[]`), APIKey: "k"}); err != nil {
		t.Fatalf("GenerateContent err: %v", err)
	}
	audio, err := client.SynthesizeSpeech(context.Background(), "voice-9", relaymodel.SynthesisRequest{Text: "hi", APIKey: "xi"})
	if err != nil {
		t.Fatalf("SynthesizeSpeech err: %v", err)
	}

	if len(paths) != 2 || paths[0] != "/api/gemini" || paths[1] != "/api/elevenlabs/v1/text-to-speech/voice-9" {
		t.Fatalf("unexpected paths %v", paths)
	}
	if synth.APIKey != "xi" {
		t.Fatalf("relay expects the key in the body, got %q", synth.APIKey)
	}
	if string(audio.Data) != "mp3" {
		t.Fatalf("unexpected audio %q", audio.Data)
	}
}

func TestClientMapsNonSuccessToUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Gemini API error: 401"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client())
	_, err := client.GenerateContent(context.Background(), relaymodel.GenerateRequest{Contents: json.RawMessage(`[]`), APIKey: "k"})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) || upErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 UpstreamError, got %v", err)
	}
}
