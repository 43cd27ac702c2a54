// Package conversation provides the message log shown by the chat screen.
package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/relaychat/internal/models"
)

// Log is the displayed conversation. It is owned by the caller of the
// exchange handler and injected into it.
type Log interface {
	// Append stores msg, assigning an ID and timestamp, and returns the ID
	Append(msg models.Message) string
	// Remove deletes the message with id and reports whether it existed
	Remove(id string) bool
	// Messages returns a copy of the log in display order
	Messages() []models.Message
	Len() int
	// Version increments on every mutation
	Version() uint64
}

// MemoryLog is an in-memory Log safe for concurrent use
type MemoryLog struct {
	mu       sync.RWMutex
	messages []models.Message
	version  uint64
	now      func() time.Time
}

// Ensure MemoryLog implements Log
var _ Log = (*MemoryLog)(nil)

// NewMemoryLog creates an empty log
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{now: time.Now}
}

func (l *MemoryLog) Append(msg models.Message) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = l.now()
	}
	l.messages = append(l.messages, msg)
	l.version++
	return msg.ID
}

func (l *MemoryLog) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, msg := range l.messages {
		if msg.ID == id {
			l.messages = append(l.messages[:i], l.messages[i+1:]...)
			l.version++
			return true
		}
	}
	return false
}

func (l *MemoryLog) Messages() []models.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *MemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

func (l *MemoryLog) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Reset clears the log
func (l *MemoryLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
	l.version++
}

// PendingCount returns how many pending indicators the log holds
func PendingCount(l Log) int {
	n := 0
	for _, msg := range l.Messages() {
		if msg.Pending {
			n++
		}
	}
	return n
}

// Last returns the most recent message, if any
func Last(l Log) (models.Message, bool) {
	msgs := l.Messages()
	if len(msgs) == 0 {
		return models.Message{}, false
	}
	return msgs[len(msgs)-1], true
}

// LastBotReply returns the text of the most recent settled bot message
func LastBotReply(l Log) (string, bool) {
	msgs := l.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].IsTerminalBot() {
			return msgs[i].Text, true
		}
	}
	return "", false
}
