package dialogue

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

// ErrorReply is the transcript text shown when generation fails.
const ErrorReply = "Unable to process request. Please check your API configuration."

var (
	ErrEmptyUtterance = errors.New("utterance is empty")
	ErrMissingKey     = errors.New("language model API key is required")
	ErrCaptureBusy    = errors.New("speech capture is not idle")
)

// Replier 根据配置与用户输入生成角色回复。
type Replier interface {
	GenerateReply(ctx context.Context, cfg session.Config, utterance string) (string, error)
}

// Voice 把回复说出来，内部自行处理降级，不返回错误。
type Voice interface {
	Speak(ctx context.Context, text string, cfg session.Config)
}

// Orchestrator 执行一次完整的对话流水线：记录输入、生成回复、语音播报。
type Orchestrator struct {
	pipeline sync.Mutex
	state    *State
	replier  Replier
	voice    Voice
}

// NewOrchestrator wires the pipeline over state.
func NewOrchestrator(state *State, replier Replier, voice Voice) *Orchestrator {
	return &Orchestrator{state: state, replier: replier, voice: voice}
}

// State exposes the session state the orchestrator writes to.
func (o *Orchestrator) State() *State {
	return o.state
}

// HandleUtterance runs the pipeline for one utterance using the cfg snapshot.
// Overlapping calls queue behind the running pipeline. Only precondition
// failures are returned; generation and synthesis failures end up in the
// transcript or the log.
func (o *Orchestrator) HandleUtterance(ctx context.Context, text string, cfg session.Config) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyUtterance
	}
	if !cfg.HasLanguageModelKey() {
		log.Printf("[dialogue] utterance rejected: language model key missing")
		return ErrMissingKey
	}

	o.pipeline.Lock()
	defer o.pipeline.Unlock()

	o.state.append(session.RoleUser, text)
	o.state.setStatus(session.StatusProcessing)
	defer o.state.setStatus(session.StatusIdle)

	reply, err := o.replier.GenerateReply(ctx, cfg, text)
	if err != nil {
		log.Printf("[dialogue] generate reply failed (persona=%s key=%s): %v",
			cfg.PersonaKind, session.MaskKey(cfg.LanguageModelKey), err)
		o.state.append(session.RoleError, ErrorReply)
		return nil
	}

	o.state.append(session.RoleAssistant, reply)
	if o.voice != nil {
		o.voice.Speak(ctx, reply, cfg)
	}
	return nil
}
