package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Relay  RelayConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	relay, err := loadRelayConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Relay: relay}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr      string
	Mode      string
	StaticDir string
}

// ServeStatic 表示是否需要托管前端构建产物。
func (c ServerConfig) ServeStatic() bool {
	return c.Mode == "production"
}

// loadServerConfig 解析服务器监听地址与运行模式。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	mode := strings.ToLower(getEnvOrDefault("APP_ENV", getEnvOrDefault("NODE_ENV", "development")))
	staticDir := getEnvOrDefault("STATIC_DIR", "dist")

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":3001" 或 "127.0.0.1:3001"。
		return ServerConfig{Addr: port, Mode: mode, StaticDir: staticDir}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, Mode: mode, StaticDir: staticDir}, nil
}

// RelayConfig 描述两个上游 AI 服务的地址与默认参数。
type RelayConfig struct {
	GeminiBaseURL     string
	GeminiModel       string
	ElevenLabsBaseURL string
	ElevenLabsModelID string
}

func loadRelayConfig() (RelayConfig, error) {
	cfg := RelayConfig{
		GeminiBaseURL:     strings.TrimRight(getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"), "/"),
		GeminiModel:       getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		ElevenLabsBaseURL: strings.TrimRight(getEnvOrDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1"), "/"),
		ElevenLabsModelID: getEnvOrDefault("ELEVENLABS_MODEL_ID", relaymodel.DefaultModelID),
	}

	if strings.ContainsAny(cfg.GeminiModel, "/ ") {
		return RelayConfig{}, fmt.Errorf("invalid GEMINI_MODEL value: %q", cfg.GeminiModel)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// ParseBoolEnv 解析布尔型环境变量，未设置时返回默认值。
func ParseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

// GetEnvOrDefault 读取环境变量，空值时返回默认值。
func GetEnvOrDefault(key, defaultValue string) string {
	return getEnvOrDefault(key, defaultValue)
}
