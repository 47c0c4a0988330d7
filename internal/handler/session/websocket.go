package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
	"github.com/zhouzirui/voice-companion/backend/internal/service/dialogue"
	sessionService "github.com/zhouzirui/voice-companion/backend/internal/service/session"
	"github.com/zhouzirui/voice-companion/backend/internal/service/speech"
	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// WebSocketHandler 每条连接运行一套对话流水线与语音采集。
type WebSocketHandler struct {
	sessions *sessionService.Service
	replier  dialogue.Replier
	relay    speech.SpeechRelay
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(sessions *sessionService.Service, replier dialogue.Replier, relay speech.SpeechRelay) *WebSocketHandler {
	return &WebSocketHandler{
		sessions: sessions,
		replier:  replier,
		relay:    relay,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/session/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type textMessage struct {
	Text string `json:"text"`
}

type captureErrorMessage struct {
	Error string `json:"error"`
}

// pipeline 是一条连接上的完整会话装配。
type pipeline struct {
	host         *socketHost
	state        *dialogue.State
	orchestrator *dialogue.Orchestrator
	capture      *dialogue.Capture
	recognizer   *speech.ChannelRecognizer
}

func (h *WebSocketHandler) newPipeline(conn *websocket.Conn, sess session.Session) *pipeline {
	record := func(entry session.Entry) {
		if err := h.sessions.AppendEntry(context.Background(), sess.ID, entry); err != nil {
			log.Printf("[websocket] record entry failed session=%s: %v", sess.ID, err)
		}
	}

	host := newSocketHost(conn, sess.ID, session.Config{PersonaKind: sess.PersonaKind}, record)
	state := dialogue.NewState(host)
	orchestrator := dialogue.NewOrchestrator(state, h.replier, speech.NewSpeaker(h.relay, host, host))
	recognizer := speech.NewChannelRecognizer()

	return &pipeline{
		host:         host,
		state:        state,
		orchestrator: orchestrator,
		capture:      dialogue.NewCapture(state, recognizer, orchestrator),
		recognizer:   recognizer,
	}
}

// handleWebSocket 处理WebSocket连接
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[websocket] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[websocket] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := h.newPipeline(conn, sess)
	defer p.capture.Stop()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go pingLoop(ctx, p.host)

	_ = p.host.send("connected", map[string]any{
		"companionType": sess.PersonaKind,
		"status":        p.state.Status(),
	})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[websocket] read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(pongWait))
		h.handleMessage(ctx, p, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, p *pipeline, msg *inboundMessage) {
	switch msg.Type {
	case "config":
		var cfg session.Config
		if err := json.Unmarshal(msg.Data, &cfg); err != nil {
			p.host.sendError("invalid config payload")
			return
		}
		if cfg.PersonaKind == "" {
			cfg.PersonaKind = p.host.config().PersonaKind
		}
		p.host.setConfig(cfg)
		log.Printf("[websocket] config applied session=%s companion=%s gemini=%s elevenlabs=%s",
			p.host.sessionID, cfg.PersonaKind, session.MaskKey(cfg.LanguageModelKey), session.MaskKey(cfg.SpeechKey))

	case "voices":
		var voices []speech.Voice
		if err := json.Unmarshal(msg.Data, &voices); err != nil {
			p.host.sendError("invalid voices payload")
			return
		}
		p.host.setVoices(voices)

	case "start":
		if err := p.capture.Start(ctx, p.host.config()); err != nil {
			p.host.sendError(captureErrorText(err))
		}

	case "stop":
		p.capture.Stop()

	case "result":
		var text textMessage
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			p.host.sendError("invalid result payload")
			return
		}
		if p.state.Status() != session.StatusListening || !p.recognizer.Deliver(text.Text) {
			log.Printf("[websocket] dropped recognition result session=%s status=%s", p.host.sessionID, p.state.Status())
		}

	case "capture_error":
		var capErr captureErrorMessage
		if err := json.Unmarshal(msg.Data, &capErr); err != nil {
			p.host.sendError("invalid capture_error payload")
			return
		}
		if p.state.Status() == session.StatusListening {
			p.recognizer.Fail(capErr.Error)
		}

	case "utterance":
		var text textMessage
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			p.host.sendError("invalid utterance payload")
			return
		}
		if p.state.Status() == session.StatusListening {
			p.host.sendError(dialogue.ErrCaptureBusy.Error())
			return
		}
		cfg := p.host.config()
		go func() {
			if err := p.orchestrator.HandleUtterance(ctx, text.Text, cfg); err != nil {
				p.host.sendError(err.Error())
			}
		}()

	default:
		p.host.sendError("unsupported message type: " + msg.Type)
	}
}

func captureErrorText(err error) string {
	if errors.Is(err, dialogue.ErrMissingKey) {
		return "Please configure your Gemini API key first"
	}
	return err.Error()
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, host *socketHost) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := host.ping(); err != nil {
				return
			}
		}
	}
}
