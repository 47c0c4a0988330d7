package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

// DefaultCompanionFile 是终端伴侣默认读取的配置文件。
const DefaultCompanionFile = "companion.toml"

// CompanionConfig 描述终端伴侣的配置，优先级：环境变量 > 配置文件 > 默认值。
type CompanionConfig struct {
	RelayURL         string `toml:"relay_url"`
	GeminiAPIKey     string `toml:"gemini_api_key"`
	ElevenLabsAPIKey string `toml:"elevenlabs_api_key"`
	VoiceID          string `toml:"voice_id"`
	CompanionType    string `toml:"companion_type"`
	CompanionName    string `toml:"companion_name"`
	CustomPrompt     string `toml:"custom_prompt"`
	LocalVoice       bool   `toml:"local_voice"`
	CacheDir         string `toml:"cache_dir"`
}

// LoadCompanion 读取配置文件并叠加环境变量。path 为空时尝试默认文件，不存在则忽略。
func LoadCompanion(path string) (CompanionConfig, error) {
	cfg := CompanionConfig{
		RelayURL:      "http://localhost:3001",
		VoiceID:       session.DefaultVoiceID,
		CompanionType: persona.DefaultKind,
		LocalVoice:    true,
	}

	file := path
	if file == "" {
		file = DefaultCompanionFile
	}
	if _, err := toml.DecodeFile(file, &cfg); err != nil {
		if path != "" || !errors.Is(err, fs.ErrNotExist) {
			return CompanionConfig{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg.RelayURL = strings.TrimRight(GetEnvOrDefault("RELAY_URL", cfg.RelayURL), "/")
	cfg.GeminiAPIKey = GetEnvOrDefault("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.ElevenLabsAPIKey = GetEnvOrDefault("ELEVENLABS_API_KEY", cfg.ElevenLabsAPIKey)
	cfg.VoiceID = GetEnvOrDefault("VOICE_ID", cfg.VoiceID)
	cfg.CompanionType = GetEnvOrDefault("COMPANION_TYPE", cfg.CompanionType)
	cfg.CompanionName = GetEnvOrDefault("COMPANION_NAME", cfg.CompanionName)
	cfg.CustomPrompt = GetEnvOrDefault("CUSTOM_PROMPT", cfg.CustomPrompt)
	cfg.CacheDir = GetEnvOrDefault("TTS_CACHE_DIR", cfg.CacheDir)

	localVoice, err := ParseBoolEnv("LOCAL_VOICE", cfg.LocalVoice)
	if err != nil {
		return CompanionConfig{}, err
	}
	cfg.LocalVoice = localVoice

	return cfg, nil
}

// Session 转换为一次会话使用的配置快照。
func (c CompanionConfig) Session() session.Config {
	return session.Config{
		LanguageModelKey: c.GeminiAPIKey,
		SpeechKey:        c.ElevenLabsAPIKey,
		VoiceID:          c.VoiceID,
		PersonaKind:      c.CompanionType,
		PersonaName:      c.CompanionName,
		CustomPrompt:     c.CustomPrompt,
	}
}
