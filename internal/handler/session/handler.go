package session

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
	sessionService "github.com/zhouzirui/voice-companion/backend/internal/service/session"
	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

// Handler 会话服务的HTTP处理器
type Handler struct {
	sessions     *sessionService.Service
	personaStore persona.Store
}

// New 创建会话处理器
func New(sessions *sessionService.Service, personaStore persona.Store) *Handler {
	return &Handler{
		sessions:     sessions,
		personaStore: personaStore,
	}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}/transcript", h.handleTranscript)
}

// handleCreateSession 创建会话
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		CompanionType string `json:"companionType"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := payload.CompanionType
	if kind == "" {
		kind = persona.DefaultKind
	}

	if _, ok := h.personaStore.FindByKind(kind); !ok {
		utils.RespondError(w, http.StatusBadRequest, "unknown companionType")
		return
	}

	sess, err := h.sessions.CreateSession(r.Context(), kind)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusCreated, sess)
}

// handleTranscript 返回会话的对话记录
func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	entries, err := h.sessions.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sessionService.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, entries)
}
