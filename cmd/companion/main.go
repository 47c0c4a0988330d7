package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/zhouzirui/voice-companion/backend/internal/config"
	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
	"github.com/zhouzirui/voice-companion/backend/internal/service/ai"
	"github.com/zhouzirui/voice-companion/backend/internal/service/dialogue"
	"github.com/zhouzirui/voice-companion/backend/internal/service/relay"
	"github.com/zhouzirui/voice-companion/backend/internal/service/speech"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] 无法加载 .env，改用系统环境变量: %v", err)
	}

	configPath := flag.String("config", "", "TOML 配置文件路径 (默认尝试 companion.toml)")
	companion := flag.String("companion", "", "角色类型: detective, therapist, coach, friend, custom")
	name := flag.String("name", "", "角色显示名称")
	voice := flag.String("voice", "", "ElevenLabs voice ID")
	relayURL := flag.String("relay", "", "转发服务地址")
	localVoice := flag.Bool("local-voice", true, "远端语音不可用时使用 Google Translate TTS 兜底")
	flag.Parse()

	cfg, err := config.LoadCompanion(*configPath)
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	applyFlags(&cfg, *companion, *name, *voice, *relayURL)
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "local-voice" {
			cfg.LocalVoice = *localVoice
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	personas := persona.NewMemoryStore(persona.Seed())
	client := relay.NewClient(cfg.RelayURL, http.DefaultClient)
	prompts := ai.NewPromptBuilder(personas)

	var local speech.LocalEngine = speech.UnavailableEngine{}
	if cfg.LocalVoice {
		local = speech.NewTranslateEngine(cfg.CacheDir)
	}

	_, displayName := prompts.ResolvePersona(cfg.Session())
	console := newConsole(os.Stdout, displayName)

	state := dialogue.NewState(console)
	orchestrator := dialogue.NewOrchestrator(state,
		ai.NewService(client, prompts),
		speech.NewSpeaker(client, speech.NewBeepPlayer(), local))
	capture := dialogue.NewCapture(state, speech.NewLineRecognizer(os.Stdin), orchestrator)

	console.greet(cfg.RelayURL)
	if err := run(ctx, capture, cfg); err != nil {
		log.Fatalf("companion stopped: %v", err)
	}
}

func applyFlags(cfg *config.CompanionConfig, companion, name, voice, relayURL string) {
	if companion != "" {
		cfg.CompanionType = companion
	}
	if name != "" {
		cfg.CompanionName = name
	}
	if voice != "" {
		cfg.VoiceID = voice
	}
	if relayURL != "" {
		cfg.RelayURL = relayURL
	}
}

// run 逐行读取输入直到 EOF 或收到退出信号。
func run(ctx context.Context, capture *dialogue.Capture, cfg config.CompanionConfig) error {
	snapshot := cfg.Session()
	for {
		err := capture.Listen(ctx, snapshot)
		var capErr *speech.CaptureError
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			return nil
		case errors.Is(err, dialogue.ErrMissingKey):
			return errors.New("GEMINI_API_KEY is not configured")
		case errors.As(err, &capErr), errors.Is(err, dialogue.ErrEmptyUtterance):
			// 空行等识别错误，继续等待下一句
		default:
			return err
		}
	}
}
