package session

import "strings"

// DefaultVoiceID is the ElevenLabs voice used when the user does not pick one.
const DefaultVoiceID = "pqHfZKP75CvOlQylNhV4"

// Config is the user-editable configuration of one voice session.
// It is passed by value: every pipeline run works on the snapshot it was given.
type Config struct {
	LanguageModelKey string `json:"geminiApiKey"`
	SpeechKey        string `json:"elevenLabsApiKey,omitempty"`
	VoiceID          string `json:"voiceId"`
	PersonaKind      string `json:"companionType"`
	PersonaName      string `json:"companionName"`
	CustomPrompt     string `json:"customPrompt,omitempty"`
}

// HasLanguageModelKey reports whether replies can be generated with this config.
func (c Config) HasLanguageModelKey() bool {
	return strings.TrimSpace(c.LanguageModelKey) != ""
}

// HasSpeechKey reports whether the remote voice should be attempted.
func (c Config) HasSpeechKey() bool {
	return strings.TrimSpace(c.SpeechKey) != ""
}

// Voice returns the configured voice, or DefaultVoiceID.
func (c Config) Voice() string {
	if v := strings.TrimSpace(c.VoiceID); v != "" {
		return v
	}
	return DefaultVoiceID
}

// MaskKey keeps only a short prefix of a secret for log lines.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "MISSING"
	}
	if len(key) <= 6 {
		return "***"
	}
	return key[:6] + "..."
}
