package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// SessionStatus is the lifecycle state of a roleplay session.
type SessionStatus string

const (
	SessionActive SessionStatus = "ACTIVE"
	SessionEnded  SessionStatus = "ENDED"
)

// MessageRole identifies the author of a transcript entry.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// SessionMessage is one entry of a session transcript.
type SessionMessage struct {
	Role      MessageRole `json:"role"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"created_at"`
}

// Session is one in-progress or completed roleplay exercise. The transcript
// and counters survive between independent inbound messages; a session must
// resume correctly days later. Once ENDED the record is immutable.
type Session struct {
	ID           string
	UserID       int64
	ScenarioID   string
	Difficulty   string
	Transcript   []SessionMessage
	MistakeCount int
	DoorSlammed  bool
	Score        int
	XPEarned     int
	Status       SessionStatus
	CreatedAt    time.Time
	CompletedAt  *time.Time
}

// UserMessageCount returns how many transcript entries the trainee wrote.
func (s *Session) UserMessageCount() int {
	n := 0
	for _, m := range s.Transcript {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// Progress tracks a user's gamification counters.
type Progress struct {
	UserID    int64
	TotalXP   int
	Level     int
	Streak    int
	UpdatedAt time.Time
}

// SessionStore handles roleplay session persistence.
type SessionStore interface {
	// CreateSession persists a new session.
	CreateSession(ctx context.Context, s *Session) error

	// GetSession retrieves a session by ID. Returns ErrNotFound if absent.
	GetSession(ctx context.Context, id string) (*Session, error)

	// UpdateSession overwrites the stored state for the session.
	UpdateSession(ctx context.Context, s *Session) error

	// ListSessionsByUser returns the user's sessions, newest first.
	ListSessionsByUser(ctx context.Context, userID int64, limit int) ([]*Session, error)
}

// ProgressStore handles progression counter persistence.
type ProgressStore interface {
	// GetProgress retrieves a user's progression record. Returns ErrNotFound
	// if the user has no record yet.
	GetProgress(ctx context.Context, userID int64) (*Progress, error)

	// UpsertProgress creates or overwrites the user's progression record.
	UpsertProgress(ctx context.Context, p *Progress) error
}

// Store aggregates all storage interfaces.
type Store interface {
	SessionStore
	ProgressStore

	// Close closes the underlying database connection.
	Close() error
}
