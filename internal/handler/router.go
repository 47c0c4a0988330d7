package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/voice-companion/backend/internal/config"
	"github.com/zhouzirui/voice-companion/backend/internal/handler/persona"
	"github.com/zhouzirui/voice-companion/backend/internal/handler/relay"
	"github.com/zhouzirui/voice-companion/backend/internal/handler/session"
	"github.com/zhouzirui/voice-companion/backend/internal/handler/static"
	middlewarePkg "github.com/zhouzirui/voice-companion/backend/internal/middleware"
	personaModel "github.com/zhouzirui/voice-companion/backend/internal/model/persona"
	"github.com/zhouzirui/voice-companion/backend/internal/service/dialogue"
	sessionService "github.com/zhouzirui/voice-companion/backend/internal/service/session"
)

// Services groups what the HTTP layer needs from the service layer.
type Services struct {
	Personas    personaModel.Store
	Sessions    *sessionService.Service
	Generator   relay.Generator
	Synthesizer relay.Synthesizer
	Replier     dialogue.Replier
}

// NewRouter wires HTTP routes to core services.
func NewRouter(serverCfg config.ServerConfig, svc Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personaHandler := persona.New(svc.Personas)
	sessionHandler := session.New(svc.Sessions, svc.Personas)
	relayHandler := relay.New(svc.Generator, svc.Synthesizer)
	wsHandler := session.NewWebSocketHandler(svc.Sessions, svc.Replier, svc.Synthesizer)

	r.Route("/api", func(api chi.Router) {
		// Provider relay
		relayHandler.RegisterRoutes(api)

		personaHandler.RegisterRoutes(api)
		sessionHandler.RegisterRoutes(api)
		wsHandler.RegisterWebSocketRoutes(api)
	})

	if serverCfg.ServeStatic() {
		static.New(serverCfg.StaticDir).RegisterRoutes(r)
	}

	return r
}
