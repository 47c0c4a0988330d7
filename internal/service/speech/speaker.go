package speech

import (
	"context"
	"errors"
	"log"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

// ErrEmptyAudio 表示远端合成返回了空音频。
var ErrEmptyAudio = errors.New("empty audio from speech relay")

// SpeechRelay 抽象远端语音合成（通过本服务的转发接口）。
type SpeechRelay interface {
	SynthesizeSpeech(ctx context.Context, voiceID string, req relaymodel.SynthesisRequest) (*relaymodel.Audio, error)
}

// Speaker 负责把一段回复文本说出来：优先远端音色，失败时降级到本地引擎。
type Speaker struct {
	relay  SpeechRelay
	player Player
	local  LocalEngine
}

// NewSpeaker 创建 Speaker。relay 或 player 为空时总是走本地引擎。
func NewSpeaker(relay SpeechRelay, player Player, local LocalEngine) *Speaker {
	if local == nil {
		local = UnavailableEngine{}
	}
	return &Speaker{relay: relay, player: player, local: local}
}

// Speak 播报 text。错误不会向上抛出，只记录日志。
func (s *Speaker) Speak(ctx context.Context, text string, cfg session.Config) {
	if !cfg.HasSpeechKey() || s.relay == nil || s.player == nil {
		s.speakLocal(ctx, text)
		return
	}

	if err := s.speakRemote(ctx, text, cfg); err != nil {
		log.Printf("[speech] remote voice failed, falling back to local voice: %v", err)
		s.speakLocal(ctx, text)
	}
}

func (s *Speaker) speakRemote(ctx context.Context, text string, cfg session.Config) error {
	audio, err := s.relay.SynthesizeSpeech(ctx, cfg.Voice(), relaymodel.SynthesisRequest{
		Text:          text,
		ModelID:       relaymodel.DefaultModelID,
		VoiceSettings: relaymodel.DefaultVoiceSettings().Raw(),
		APIKey:        cfg.SpeechKey,
	})
	if err != nil {
		return err
	}
	if audio == nil || len(audio.Data) == 0 {
		return ErrEmptyAudio
	}
	return s.player.Play(ctx, audio)
}

func (s *Speaker) speakLocal(ctx context.Context, text string) {
	if !s.local.Available() {
		log.Printf("[speech] no local speech synthesis available, reply not spoken")
		return
	}

	utterance := NewLocalUtterance(text, s.local.Voices())
	if err := s.local.Speak(ctx, utterance); err != nil {
		log.Printf("[speech] local speech failed: %v", err)
	}
}
