package session

import (
	"context"
	"encoding/base64"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
	"github.com/zhouzirui/voice-companion/backend/internal/service/speech"
)

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// audioPayload 远端合成的音频，交给浏览器的唯一播放元素。
type audioPayload struct {
	AudioData   string `json:"audioData"`
	ContentType string `json:"contentType"`
}

// socketHost 把浏览器的能力（播放、本地合成、界面）映射到一条 WebSocket 连接上。
// 所有写操作经 writeMu 串行化。
type socketHost struct {
	conn      *websocket.Conn
	sessionID string
	writeMu   sync.Mutex

	mu     sync.RWMutex
	cfg    session.Config
	voices []speech.Voice

	record func(entry session.Entry)
}

func newSocketHost(conn *websocket.Conn, sessionID string, cfg session.Config, record func(session.Entry)) *socketHost {
	return &socketHost{conn: conn, sessionID: sessionID, cfg: cfg, record: record}
}

func (h *socketHost) send(msgType string, data interface{}) error {
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: h.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	h.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := h.conn.WriteJSON(msg); err != nil {
		log.Printf("[websocket] write %s failed: %v", msgType, err)
		return err
	}
	return nil
}

func (h *socketHost) sendError(message string) {
	_ = h.send("error", map[string]string{"message": message})
}

func (h *socketHost) ping() error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	return h.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// config 返回当前配置的快照。
func (h *socketHost) config() session.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

func (h *socketHost) setConfig(cfg session.Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg = cfg
}

func (h *socketHost) setVoices(voices []speech.Voice) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.voices = append([]speech.Voice(nil), voices...)
}

// StatusChanged implements dialogue.Observer.
func (h *socketHost) StatusChanged(status session.Status) {
	_ = h.send("status", map[string]string{"status": string(status)})
}

// EntryAppended implements dialogue.Observer.
func (h *socketHost) EntryAppended(entry session.Entry) {
	if h.record != nil {
		h.record(entry)
	}
	_ = h.send("transcript", entry)
}

// Play implements speech.Player: the browser replaces its current source.
func (h *socketHost) Play(_ context.Context, audio *relaymodel.Audio) error {
	return h.send("audio", audioPayload{
		AudioData:   base64.StdEncoding.EncodeToString(audio.Data),
		ContentType: audio.ContentType,
	})
}

// Available implements speech.LocalEngine. Browsers without speechSynthesis
// report an empty voice list but still accept utterances.
func (h *socketHost) Available() bool { return true }

func (h *socketHost) Voices() []speech.Voice {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]speech.Voice(nil), h.voices...)
}

func (h *socketHost) Speak(_ context.Context, u speech.Utterance) error {
	return h.send("speak_local", u)
}
