package dialogue

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

// Observer 接收会话状态变化，用于驱动界面（WebSocket、终端输出等）。
type Observer interface {
	StatusChanged(status session.Status)
	EntryAppended(entry session.Entry)
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (o Observers) StatusChanged(status session.Status) {
	for _, obs := range o {
		obs.StatusChanged(status)
	}
}

func (o Observers) EntryAppended(entry session.Entry) {
	for _, obs := range o {
		obs.EntryAppended(entry)
	}
}

type nopObserver struct{}

func (nopObserver) StatusChanged(session.Status) {}
func (nopObserver) EntryAppended(session.Entry)  {}

// State 保存一次会话的状态与对话记录，transcript 只追加不修改。
// 观察者在 mu 释放后、notifyMu 持有期间回调，回调顺序与状态变化顺序一致。
type State struct {
	mu       sync.RWMutex
	notifyMu sync.Mutex
	status   session.Status
	entries  []session.Entry
	observer Observer
}

// NewState 创建空闲状态的会话。
func NewState(observer Observer) *State {
	if observer == nil {
		observer = nopObserver{}
	}
	return &State{
		status:   session.StatusIdle,
		entries:  make([]session.Entry, 0, 16),
		observer: observer,
	}
}

// Status 返回当前状态。
func (s *State) Status() session.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Entries 返回对话记录的副本。
func (s *State) Entries() []session.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]session.Entry, len(s.entries))
	copy(copied, s.entries)
	return copied
}

func (s *State) setStatus(status session.Status) {
	s.mu.Lock()
	if s.status == status {
		s.mu.Unlock()
		return
	}
	s.status = status
	s.notifyStatus(status)
}

// transition moves from -> to atomically and reports whether it happened.
func (s *State) transition(from, to session.Status) bool {
	s.mu.Lock()
	if s.status != from {
		s.mu.Unlock()
		return false
	}
	if from == to {
		s.mu.Unlock()
		return true
	}
	s.status = to
	s.notifyStatus(to)
	return true
}

// notifyStatus must be called with mu held; it releases mu.
func (s *State) notifyStatus(status session.Status) {
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	s.observer.StatusChanged(status)
}

func (s *State) append(role session.Role, text string) session.Entry {
	entry := session.Entry{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.observer.EntryAppended(entry)
	return entry
}
