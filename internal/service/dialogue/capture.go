package dialogue

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
	"github.com/zhouzirui/voice-companion/backend/internal/service/speech"
)

// UtteranceHandler consumes finalized transcripts.
type UtteranceHandler interface {
	HandleUtterance(ctx context.Context, text string, cfg session.Config) error
}

// resetter is implemented by recognizers that hold results delivered ahead
// of a Recognize call.
type resetter interface {
	Reset()
}

// Capture 把单次语音识别接入对话流水线：idle -> listening -> idle。
// 识别成功时状态直接交给流水线（listening -> processing），中间不出现可被抢占的 idle。
type Capture struct {
	mu         sync.Mutex
	state      *State
	recognizer speech.Recognizer
	handler    UtteranceHandler
	cancel     context.CancelFunc
	generation uint64
}

// NewCapture 创建语音采集适配器。
func NewCapture(state *State, recognizer speech.Recognizer, handler UtteranceHandler) *Capture {
	if recognizer == nil {
		recognizer = speech.UnavailableRecognizer{}
	}
	return &Capture{state: state, recognizer: recognizer, handler: handler}
}

// Start begins one listening session and returns immediately. The cfg
// snapshot taken here is the one handed to the pipeline.
func (c *Capture) Start(ctx context.Context, cfg session.Config) error {
	_, err := c.begin(ctx, cfg)
	return err
}

// Listen is the blocking form of Start: it returns once the recognition and
// the pipeline it triggered have settled, with the recognition or pipeline
// precondition error if any.
func (c *Capture) Listen(ctx context.Context, cfg session.Config) error {
	done, err := c.begin(ctx, cfg)
	if err != nil {
		return err
	}
	return <-done
}

// Stop cancels an in-flight recognition and forces idle. No-op when idle.
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel == nil {
		return
	}
	c.cancel()
	c.cancel = nil
	c.generation++
	if r, ok := c.recognizer.(resetter); ok {
		r.Reset()
	}
	c.state.transition(session.StatusListening, session.StatusIdle)
}

func (c *Capture) begin(ctx context.Context, cfg session.Config) (<-chan error, error) {
	if !c.recognizer.Available() {
		log.Printf("[capture] start rejected: %v", speech.ErrRecognizerUnavailable)
		return nil, speech.ErrRecognizerUnavailable
	}
	if !cfg.HasLanguageModelKey() {
		log.Printf("[capture] start rejected: language model key missing")
		return nil, ErrMissingKey
	}

	c.mu.Lock()
	if c.cancel != nil || !c.state.transition(session.StatusIdle, session.StatusListening) {
		c.mu.Unlock()
		log.Printf("[capture] start rejected: status=%s", c.state.Status())
		return nil, ErrCaptureBusy
	}
	recognizeCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	done := make(chan error, 1)
	go c.run(ctx, recognizeCtx, gen, cfg, done)
	return done, nil
}

func (c *Capture) run(ctx, recognizeCtx context.Context, gen uint64, cfg session.Config, done chan<- error) {
	text, err := c.recognizer.Recognize(recognizeCtx)

	c.mu.Lock()
	if c.generation != gen {
		// 已被 Stop，丢弃结果。
		c.mu.Unlock()
		done <- context.Canceled
		return
	}
	c.cancel()
	c.cancel = nil
	if err != nil {
		c.state.transition(session.StatusListening, session.StatusIdle)
		c.mu.Unlock()
		if !errors.Is(err, context.Canceled) {
			log.Printf("[capture] recognition failed: %v", err)
		}
		done <- err
		return
	}
	c.state.transition(session.StatusListening, session.StatusProcessing)
	c.mu.Unlock()

	if err := c.handler.HandleUtterance(ctx, text, cfg); err != nil {
		c.state.transition(session.StatusProcessing, session.StatusIdle)
		log.Printf("[capture] utterance not handled: %v", err)
		done <- err
		return
	}
	done <- nil
}
