package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_ENV", "NODE_ENV", "STATIC_DIR", "GEMINI_BASE_URL", "GEMINI_MODEL", "ELEVENLABS_BASE_URL", "ELEVENLABS_MODEL_ID"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":3001" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Server.ServeStatic() {
		t.Fatal("static serving should be off outside production")
	}
	if cfg.Relay.GeminiModel != "gemini-2.0-flash" {
		t.Fatalf("unexpected model %q", cfg.Relay.GeminiModel)
	}
	if cfg.Relay.ElevenLabsModelID != "eleven_monolingual_v1" {
		t.Fatalf("unexpected model id %q", cfg.Relay.ElevenLabsModelID)
	}
}

func TestLoadProductionMode(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("GEMINI_BASE_URL", "http://example.test/v1beta/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.Server.ServeStatic() {
		t.Fatal("expected static serving in production")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr)
	}
	if cfg.Relay.GeminiBaseURL != "http://example.test/v1beta" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.Relay.GeminiBaseURL)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "30 01")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid PORT")
	}
}
