package session

import "time"

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// Entry is one line of the append-only conversation transcript.
type Entry struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session captures a transient anonymous conversation.
type Session struct {
	ID          string    `json:"id"`
	PersonaKind string    `json:"personaKind"`
	CreatedAt   time.Time `json:"createdAt"`
}
