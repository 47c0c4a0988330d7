package dialogue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

type recordingObserver struct {
	mu       sync.Mutex
	statuses []session.Status
	entries  []session.Entry
}

func (r *recordingObserver) StatusChanged(status session.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func (r *recordingObserver) EntryAppended(entry session.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingObserver) Statuses() []session.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]session.Status(nil), r.statuses...)
}

type fakeReplier struct {
	mu    sync.Mutex
	reply string
	err   error
	delay time.Duration
	cfgs  []session.Config
}

func (f *fakeReplier) GenerateReply(_ context.Context, cfg session.Config, _ string) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cfgs = append(f.cfgs, cfg)
	return f.reply, f.err
}

type spoken struct {
	text string
	cfg  session.Config
}

type fakeVoice struct {
	mu     sync.Mutex
	spoken []spoken
}

func (f *fakeVoice) Speak(_ context.Context, text string, cfg session.Config) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, spoken{text: text, cfg: cfg})
}

func (f *fakeVoice) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.spoken)
}

func detectiveConfig() session.Config {
	return session.Config{
		LanguageModelKey: "gm-key",
		PersonaKind:      "detective",
		PersonaName:      "Detective Mr. X",
	}
}

func TestHandleUtteranceSuccess(t *testing.T) {
	observer := &recordingObserver{}
	state := NewState(observer)
	voice := &fakeVoice{}
	orch := NewOrchestrator(state, &fakeReplier{reply: "Quarter past mystery, darling."}, voice)

	if err := orch.HandleUtterance(context.Background(), "What time is it?", detectiveConfig()); err != nil {
		t.Fatalf("HandleUtterance err: %v", err)
	}

	entries := state.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Role != session.RoleUser || entries[0].Text != "What time is it?" {
		t.Fatalf("unexpected user entry %+v", entries[0])
	}
	if entries[1].Role != session.RoleAssistant || entries[1].Text != "Quarter past mystery, darling." {
		t.Fatalf("unexpected assistant entry %+v", entries[1])
	}
	if entries[0].ID == "" || entries[0].ID == entries[1].ID {
		t.Fatal("entries should carry distinct IDs")
	}

	if voice.count() != 1 || voice.spoken[0].text != "Quarter past mystery, darling." {
		t.Fatalf("unexpected speech %+v", voice.spoken)
	}
	if state.Status() != session.StatusIdle {
		t.Fatalf("expected idle, got %s", state.Status())
	}

	statuses := observer.Statuses()
	if len(statuses) != 2 || statuses[0] != session.StatusProcessing || statuses[1] != session.StatusIdle {
		t.Fatalf("unexpected status sequence %v", statuses)
	}
}

func TestHandleUtteranceGenerationFailure(t *testing.T) {
	state := NewState(nil)
	voice := &fakeVoice{}
	orch := NewOrchestrator(state, &fakeReplier{err: errors.New("Gemini API error: 401")}, voice)

	if err := orch.HandleUtterance(context.Background(), "Hello?", detectiveConfig()); err != nil {
		t.Fatalf("generation failure should not escape: %v", err)
	}

	entries := state.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Role != session.RoleError || entries[1].Text != ErrorReply {
		t.Fatalf("unexpected error entry %+v", entries[1])
	}
	if voice.count() != 0 {
		t.Fatal("synthesis should be skipped after a generation failure")
	}
	if state.Status() != session.StatusIdle {
		t.Fatalf("expected idle, got %s", state.Status())
	}
}

func TestHandleUtterancePreconditions(t *testing.T) {
	tests := []struct {
		name string
		text string
		cfg  session.Config
		want error
	}{
		{name: "empty", text: "", cfg: detectiveConfig(), want: ErrEmptyUtterance},
		{name: "whitespace", text: "  \t ", cfg: detectiveConfig(), want: ErrEmptyUtterance},
		{name: "missing key", text: "Hello", cfg: session.Config{PersonaKind: "coach"}, want: ErrMissingKey},
	}

	for _, tt := range tests {
		state := NewState(nil)
		replier := &fakeReplier{reply: "hi"}
		orch := NewOrchestrator(state, replier, &fakeVoice{})

		err := orch.HandleUtterance(context.Background(), tt.text, tt.cfg)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
		if len(state.Entries()) != 0 {
			t.Errorf("%s: nothing should be appended", tt.name)
		}
		if len(replier.cfgs) != 0 {
			t.Errorf("%s: replier should not be called", tt.name)
		}
	}
}

func TestHandleUtteranceUsesSnapshot(t *testing.T) {
	state := NewState(nil)
	replier := &fakeReplier{reply: "ok"}
	voice := &fakeVoice{}
	orch := NewOrchestrator(state, replier, voice)

	cfg := detectiveConfig()
	cfg.SpeechKey = "el-key"
	snapshot := cfg
	done := make(chan error, 1)
	go func() { done <- orch.HandleUtterance(context.Background(), "Hi", snapshot) }()
	cfg.LanguageModelKey = "changed"
	cfg.SpeechKey = ""

	if err := <-done; err != nil {
		t.Fatalf("HandleUtterance err: %v", err)
	}
	if replier.cfgs[0].LanguageModelKey != "gm-key" {
		t.Fatalf("replier saw %q", replier.cfgs[0].LanguageModelKey)
	}
	if voice.spoken[0].cfg.SpeechKey != "el-key" {
		t.Fatalf("voice saw %q", voice.spoken[0].cfg.SpeechKey)
	}
}

func TestHandleUtteranceSerializesPipelines(t *testing.T) {
	state := NewState(nil)
	orch := NewOrchestrator(state, &fakeReplier{reply: "reply", delay: 5 * time.Millisecond}, &fakeVoice{})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = orch.HandleUtterance(context.Background(), "question", detectiveConfig())
		}()
	}
	wg.Wait()

	entries := state.Entries()
	if len(entries) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		want := session.RoleUser
		if i%2 == 1 {
			want = session.RoleAssistant
		}
		if entry.Role != want {
			t.Fatalf("entry %d role = %s, want %s", i, entry.Role, want)
		}
	}
}
