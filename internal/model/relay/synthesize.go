package relay

import (
	"bytes"
	"encoding/json"
)

// DefaultModelID is the ElevenLabs model used when none is requested.
const DefaultModelID = "eleven_monolingual_v1"

// VoiceSettings controls ElevenLabs voice characteristics.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings returns the settings applied when a request omits them.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.6,
		Style:           0.8,
		UseSpeakerBoost: true,
	}
}

// Raw encodes the settings for a SynthesisRequest.
func (v VoiceSettings) Raw() json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

// SynthesisRequest is the body accepted by the speech-synthesis relay.
// VoiceSettings stays raw so callers' settings reach the provider verbatim.
type SynthesisRequest struct {
	Text          string          `json:"text"`
	ModelID       string          `json:"model_id,omitempty"`
	VoiceSettings json.RawMessage `json:"voice_settings,omitempty"`
	APIKey        string          `json:"apiKey"`
}

// WithDefaults fills the optional fields the way the provider relay does.
func (r SynthesisRequest) WithDefaults(modelID string) SynthesisRequest {
	if r.ModelID == "" {
		r.ModelID = modelID
	}
	if r.ModelID == "" {
		r.ModelID = DefaultModelID
	}
	if trimmed := bytes.TrimSpace(r.VoiceSettings); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		r.VoiceSettings = DefaultVoiceSettings().Raw()
	}
	return r
}

// Audio is a synthesized audio payload.
type Audio struct {
	Data        []byte `json:"-"`
	ContentType string `json:"contentType"`
}
