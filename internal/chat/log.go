// Package chat holds the in-classroom message log. Each classroom owns one
// Log; the websocket hub fans messages out to connected clients while the
// log keeps the ordered transcript for late joiners and the snapshot API.
package chat

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyMessage is returned when a message contains no visible text.
var ErrEmptyMessage = errors.New("chat: empty message")

// Role of the message author inside the classroom transcript.
type Role string

const (
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
	RoleSystem     Role = "system"
)

// Message is one transcript entry. Seq is monotonic per log and orders
// messages that share a rendered timestamp.
type Message struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Role      Role      `json:"role"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	Timestamp string    `json:"timestamp"`
	SentAt    time.Time `json:"sent_at"`
}

// Log is an append-only classroom transcript.
type Log struct {
	mu      sync.RWMutex
	seq     uint64
	entries []Message
	now     func() time.Time
}

func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append validates and appends a message, returning the stored entry with
// its assigned ID, sequence, and rendered timestamp. Messages that are
// empty after trimming are rejected.
func (l *Log) Append(role Role, userID, userName, text string) (Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Message{}, ErrEmptyMessage
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	now := l.now()
	msg := Message{
		ID:        uuid.NewString(),
		Seq:       l.seq,
		Role:      role,
		UserID:    userID,
		UserName:  userName,
		Text:      trimmed,
		Timestamp: now.Format("15:04"),
		SentAt:    now,
	}
	l.entries = append(l.entries, msg)
	return msg, nil
}

// Messages returns the full transcript in send order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Message, len(l.entries))
	copy(out, l.entries)
	return out
}

// Tail returns the last n messages in send order.
func (l *Log) Tail(n int) []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || len(l.entries) == 0 {
		return nil
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Message, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Len reports the transcript length.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
