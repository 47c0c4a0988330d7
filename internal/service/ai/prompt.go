package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

const utteranceTemplate = "{persona}\n\nUser said: \"{utterance}\"\n\nRespond as {name}:"

// PromptBuilder turns a session config and an utterance into the single
// combined prompt sent to the language model.
type PromptBuilder struct {
	personas persona.Store
	template prompt.ChatTemplate
}

// NewPromptBuilder creates a builder backed by the given preset store.
func NewPromptBuilder(personas persona.Store) *PromptBuilder {
	return &PromptBuilder{
		personas: personas,
		template: prompt.FromMessages(schema.FString, schema.UserMessage(utteranceTemplate)),
	}
}

// ResolvePersona returns the persona instructions and the name the model
// should answer as. A non-empty custom prompt wins for the custom kind;
// unknown kinds use the default preset.
func (b *PromptBuilder) ResolvePersona(cfg session.Config) (instructions, name string) {
	preset, ok := b.personas.FindByKind(cfg.PersonaKind)
	if !ok {
		log.Printf("[ai] unknown companion type %q, using %s", cfg.PersonaKind, persona.DefaultKind)
		preset, _ = b.personas.FindByKind(persona.DefaultKind)
	}

	instructions = preset.Prompt
	if cfg.PersonaKind == persona.KindCustom && strings.TrimSpace(cfg.CustomPrompt) != "" {
		instructions = cfg.CustomPrompt
	}

	name = strings.TrimSpace(cfg.PersonaName)
	if name == "" {
		name = preset.Name
	}
	return instructions, name
}

// BuildMessages renders the prompt template for one utterance.
func (b *PromptBuilder) BuildMessages(ctx context.Context, cfg session.Config, utterance string) ([]*schema.Message, error) {
	instructions, name := b.ResolvePersona(cfg)

	messages, err := b.template.Format(ctx, map[string]any{
		"persona":   instructions,
		"utterance": utterance,
		"name":      name,
	})
	if err != nil {
		return nil, fmt.Errorf("format prompt: %w", err)
	}
	return messages, nil
}

// ToContents converts chat messages to Gemini content blocks. User turns are
// sent without a role, model turns as "model".
func ToContents(messages []*schema.Message) []relaymodel.Content {
	contents := make([]relaymodel.Content, 0, len(messages))
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		content := relaymodel.Content{Parts: []relaymodel.Part{{Text: msg.Content}}}
		if msg.Role == schema.Assistant {
			content.Role = "model"
		}
		contents = append(contents, content)
	}
	return contents
}
