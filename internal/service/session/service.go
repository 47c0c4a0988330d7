package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhouzirui/voice-companion/backend/internal/model/session"
)

var (
	ErrPersonaRequired = errors.New("companionType is required")
	ErrSessionNotFound = errors.New("session not found")
)

// Service keeps anonymous sessions and their transcripts in memory for the
// lifetime of the process.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
	entries  map[string][]session.Entry
}

// NewService bootstraps the in-memory session registry.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]session.Session),
		entries:  make(map[string][]session.Entry),
	}
}

// CreateSession provisions an anonymous session bound to a persona kind.
func (s *Service) CreateSession(_ context.Context, personaKind string) (session.Session, error) {
	if personaKind == "" {
		return session.Session{}, ErrPersonaRequired
	}

	sess := session.Session{
		ID:          uuid.NewString(),
		PersonaKind: personaKind,
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.entries[sess.ID] = make([]session.Entry, 0, 16)
	s.mu.Unlock()

	return sess, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return session.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// AppendEntry records a transcript entry produced by the session's pipeline.
func (s *Service) AppendEntry(_ context.Context, sessionID string, entry session.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.entries[sessionID] = append(s.entries[sessionID], entry)
	return nil
}

// LoadTranscript returns stored entries for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]session.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.entries[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]session.Entry, len(entries))
	copy(copied, entries)
	return copied, nil
}
