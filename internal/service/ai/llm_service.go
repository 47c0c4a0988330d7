package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

// ErrEmptyReply is returned when the provider answered without any text.
var ErrEmptyReply = errors.New("response contained no candidate text")

// ContentGenerator is a language-generation relay: either the in-process
// upstream client or the HTTP client of a running relay server.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, req relaymodel.GenerateRequest) ([]byte, error)
}

// Service encapsulates persona-driven reply generation
type Service struct {
	generator ContentGenerator
	prompts   *PromptBuilder
}

// NewService creates a new AI service instance
func NewService(generator ContentGenerator, prompts *PromptBuilder) *Service {
	return &Service{generator: generator, prompts: prompts}
}

// GenerateReply asks the language model to answer utterance in the persona of
// cfg, authenticating with the key carried by cfg.
func (s *Service) GenerateReply(ctx context.Context, cfg session.Config, utterance string) (string, error) {
	messages, err := s.prompts.BuildMessages(ctx, cfg, utterance)
	if err != nil {
		return "", err
	}

	contents, err := json.Marshal(ToContents(messages))
	if err != nil {
		return "", fmt.Errorf("marshal contents: %w", err)
	}

	data, err := s.generator.GenerateContent(ctx, relaymodel.GenerateRequest{
		Contents: contents,
		APIKey:   cfg.LanguageModelKey,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var resp relaymodel.GenerateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	text, ok := resp.FirstText()
	if !ok {
		return "", ErrEmptyReply
	}

	log.Printf("[ai] generated reply companion=%s length=%d", cfg.PersonaKind, len(text))
	return text, nil
}
