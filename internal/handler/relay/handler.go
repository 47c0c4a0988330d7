package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
	relaysvc "github.com/zhouzirui/voice-companion/backend/internal/service/relay"
	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

// Generator 抽象语言模型上游，便于测试与替换实现
type Generator interface {
	GenerateContent(ctx context.Context, req relaymodel.GenerateRequest) ([]byte, error)
}

// Synthesizer 抽象语音合成上游
type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, voiceID string, req relaymodel.SynthesisRequest) (*relaymodel.Audio, error)
}

// Handler 两个上游服务的无状态转发端点
type Handler struct {
	generator   Generator
	synthesizer Synthesizer
}

// New 创建转发处理器
func New(generator Generator, synthesizer Synthesizer) *Handler {
	return &Handler{generator: generator, synthesizer: synthesizer}
}

// RegisterRoutes 注册转发路由。方法校验在处理器内部完成，以便返回统一的 405 响应。
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/gemini", h.handleGenerate)
	r.HandleFunc("/elevenlabs/v1/text-to-speech/{voiceID}", h.handleSynthesize)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !acceptPost(w, r) {
		return
	}

	var req relaymodel.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.APIKey == "" {
		log.Println("[relay] gemini request missing API key")
		utils.RespondError(w, http.StatusBadRequest, relaysvc.ErrAPIKeyRequired.Error())
		return
	}
	if len(req.Contents) == 0 || string(req.Contents) == "null" {
		log.Println("[relay] gemini request missing contents")
		utils.RespondError(w, http.StatusBadRequest, relaysvc.ErrContentsRequired.Error())
		return
	}

	log.Printf("[relay] forwarding gemini request key=%s", session.MaskKey(req.APIKey))
	data, err := h.generator.GenerateContent(r.Context(), req)
	if err != nil {
		respondRelayError(w, err)
		return
	}

	utils.RespondRawJSON(w, http.StatusOK, data)
}

func (h *Handler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	if !acceptPost(w, r) {
		return
	}

	voiceID := chi.URLParam(r, "voiceID")

	var req relaymodel.SynthesisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, relaysvc.ErrTextRequired.Error())
		return
	}
	if req.APIKey == "" {
		utils.RespondError(w, http.StatusBadRequest, relaysvc.ErrAPIKeyRequired.Error())
		return
	}

	log.Printf("[relay] forwarding elevenlabs request voice=%s chars=%d key=%s", voiceID, len(req.Text), session.MaskKey(req.APIKey))
	audio, err := h.synthesizer.SynthesizeSpeech(r.Context(), voiceID, req)
	if err != nil {
		respondRelayError(w, err)
		return
	}

	contentType := audio.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio.Data); err != nil {
		log.Printf("failed to write audio response: %v", err)
	}
}

// acceptPost 处理预检请求并拒绝非 POST 方法，返回是否继续处理
func acceptPost(w http.ResponseWriter, r *http.Request) bool {
	switch r.Method {
	case http.MethodPost:
		return true
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return false
	default:
		utils.RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
}

func respondRelayError(w http.ResponseWriter, err error) {
	var upErr *relaysvc.UpstreamError
	switch {
	case errors.As(err, &upErr):
		log.Printf("[relay] %s API error: %d %s", upErr.Provider, upErr.StatusCode, upErr.Body)
		utils.RespondErrorDetails(w, upErr.StatusCode, upErr.Error(), upErr.Body)
	case relaysvc.IsValidationError(err):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[relay] API error: %v", err)
		utils.RespondErrorDetails(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}
