package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

type fakeGenerator struct {
	body []byte
	err  error
	got  relaymodel.GenerateRequest
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, req relaymodel.GenerateRequest) ([]byte, error) {
	f.got = req
	return f.body, f.err
}

func TestGenerateReplyExtractsFirstCandidate(t *testing.T) {
	gen := &fakeGenerator{body: []byte(`{"candidates":[{"content":{"parts":[{"text":"Quarter past mystery, darling."},{"text":"ignored"}]}},{"content":{"parts":[{"text":"second"}]}}]}`)}
	svc := NewService(gen, newBuilder())

	reply, err := svc.GenerateReply(context.Background(), session.Config{
		LanguageModelKey: "snap-key",
		PersonaKind:      persona.KindDetective,
	}, "What time is it?")
	if err != nil {
		t.Fatalf("GenerateReply err: %v", err)
	}
	if reply != "Quarter past mystery, darling." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if gen.got.APIKey != "snap-key" {
		t.Fatalf("expected snapshot key, got %q", gen.got.APIKey)
	}

	var contents []relaymodel.Content
	if err := json.Unmarshal(gen.got.Contents, &contents); err != nil {
		t.Fatalf("contents not JSON: %v", err)
	}
	if len(contents) != 1 || len(contents[0].Parts) != 1 {
		t.Fatalf("expected one content with one part, got %+v", contents)
	}
}

func TestGenerateReplyFailures(t *testing.T) {
	cases := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"transport", &fakeGenerator{err: errors.New("connection refused")}},
		{"malformed", &fakeGenerator{body: []byte(`<html>`)}},
		{"no candidates", &fakeGenerator{body: []byte(`{"candidates":[]}`)}},
		{"no parts", &fakeGenerator{body: []byte(`{"candidates":[{"content":{"parts":[]}}]}`)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(tc.gen, newBuilder())
			if _, err := svc.GenerateReply(context.Background(), session.Config{LanguageModelKey: "k"}, "hi"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
