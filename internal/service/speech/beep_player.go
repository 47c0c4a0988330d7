package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
)

// outputRate is the sample rate the shared speaker is opened with.
const outputRate = beep.SampleRate(44100)

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(outputRate, outputRate.N(time.Second/10))
	})
	return speakerErr
}

// playStream replaces whatever the speaker is playing with s and blocks until
// s drains or ctx is cancelled.
func playStream(ctx context.Context, s beep.Streamer, rate beep.SampleRate) error {
	if err := initSpeaker(); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	if rate != outputRate {
		s = beep.Resample(3, rate, outputRate, s)
	}

	done := make(chan struct{})
	ctrl := &beep.Ctrl{Streamer: beep.Seq(s, beep.Callback(func() {
		close(done)
	}))}

	speaker.Clear()
	speaker.Play(ctrl)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Lock()
		ctrl.Streamer = nil
		speaker.Unlock()
		return ctx.Err()
	}
}

// BeepPlayer plays MPEG audio on the local sound device.
type BeepPlayer struct {
	mu sync.Mutex
}

// NewBeepPlayer creates a player backed by the default output device.
func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{}
}

// Play decodes audio and plays it, replacing the current source.
func (p *BeepPlayer) Play(ctx context.Context, audio *relaymodel.Audio) error {
	if audio == nil || len(audio.Data) == 0 {
		return ErrEmptyAudio
	}
	if audio.ContentType != "" && !strings.Contains(audio.ContentType, "mpeg") {
		return fmt.Errorf("unsupported audio type %q", audio.ContentType)
	}

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(audio.Data)))
	if err != nil {
		return fmt.Errorf("mp3 decode failed: %w", err)
	}
	defer streamer.Close()

	p.mu.Lock()
	defer p.mu.Unlock()
	return playStream(ctx, streamer, format.SampleRate)
}
