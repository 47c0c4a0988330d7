package speech

import (
	"context"
	"log"
	"strings"
)

// Fixed delivery of the local fallback voice.
const (
	LocalRate   = 0.85
	LocalPitch  = 0.75
	LocalVolume = 1.0
)

// PreferredVoiceNames is matched in order against the engine's voice names.
var PreferredVoiceNames = []string{"Google UK English Male", "Microsoft David"}

// Voice is one voice offered by a local synthesis engine.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang,omitempty"`
}

// Utterance is a request to the local synthesis engine.
type Utterance struct {
	Text   string  `json:"text"`
	Voice  *Voice  `json:"voice,omitempty"`
	Rate   float64 `json:"rate"`
	Pitch  float64 `json:"pitch"`
	Volume float64 `json:"volume"`
}

// LocalEngine is a host text-to-speech capability used when the remote voice
// is not configured or fails.
type LocalEngine interface {
	Available() bool
	Voices() []Voice
	Speak(ctx context.Context, u Utterance) error
}

// SelectVoice returns the first voice whose name contains one of preferences,
// trying preferences in order, then the first voice, then nil.
func SelectVoice(voices []Voice, preferences []string) *Voice {
	for _, pref := range preferences {
		for i := range voices {
			if strings.Contains(voices[i].Name, pref) {
				v := voices[i]
				return &v
			}
		}
	}
	if len(voices) > 0 {
		v := voices[0]
		return &v
	}
	return nil
}

// NewLocalUtterance builds the fallback utterance for text.
func NewLocalUtterance(text string, voices []Voice) Utterance {
	return Utterance{
		Text:   text,
		Voice:  SelectVoice(voices, PreferredVoiceNames),
		Rate:   LocalRate,
		Pitch:  LocalPitch,
		Volume: LocalVolume,
	}
}

// UnavailableEngine stands in for hosts without local speech synthesis.
type UnavailableEngine struct{}

func (UnavailableEngine) Available() bool { return false }
func (UnavailableEngine) Voices() []Voice { return nil }

func (UnavailableEngine) Speak(_ context.Context, u Utterance) error {
	log.Printf("[speech] local synthesis unavailable, dropping %d chars", len(u.Text))
	return nil
}
