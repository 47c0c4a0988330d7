package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/zhouzirui/voice-companion/backend/internal/config"
	"github.com/zhouzirui/voice-companion/backend/internal/handler"
	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
	"github.com/zhouzirui/voice-companion/backend/internal/service/ai"
	"github.com/zhouzirui/voice-companion/backend/internal/service/relay"
	"github.com/zhouzirui/voice-companion/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	personaStore := persona.NewMemoryStore(persona.Seed())
	sessionService := session.NewService()

	// 上游客户端只使用默认传输配置，密钥由每个请求携带
	gemini := relay.NewGeminiClient(cfg.Relay.GeminiBaseURL, cfg.Relay.GeminiModel, http.DefaultClient)
	elevenLabs := relay.NewElevenLabsClient(cfg.Relay.ElevenLabsBaseURL, cfg.Relay.ElevenLabsModelID, http.DefaultClient)
	log.Printf("relay configured gemini=%s model=%s elevenlabs=%s", cfg.Relay.GeminiBaseURL, cfg.Relay.GeminiModel, cfg.Relay.ElevenLabsBaseURL)

	aiService := ai.NewService(gemini, ai.NewPromptBuilder(personaStore))

	router := handler.NewRouter(cfg.Server, handler.Services{
		Personas:    personaStore,
		Sessions:    sessionService,
		Generator:   gemini,
		Synthesizer: elevenLabs,
		Replier:     aiService,
	})

	if cfg.Server.ServeStatic() {
		log.Printf("serving static assets from %s", cfg.Server.StaticDir)
	}

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Voice companion server listening on %s (mode=%s)", addr, serverCfg.Mode)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
