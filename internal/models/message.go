package models

import "time"

// Sender identifies who authored a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents one entry of the conversation log
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	Pending   bool // true only for the transient "thinking" indicator
	CreatedAt time.Time
}

// NewUserMessage creates a message authored by the user
func NewUserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

// NewBotMessage creates a terminal bot message
func NewBotMessage(text string) Message {
	return Message{Text: text, Sender: SenderBot}
}

// NewPendingMessage creates the transient indicator shown while a request is outstanding
func NewPendingMessage() Message {
	return Message{Text: PendingText, Sender: SenderBot, Pending: true}
}

// IsUser reports whether the message was authored by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IsTerminalBot reports whether the message is a settled bot reply
func (m Message) IsTerminalBot() bool {
	return m.Sender == SenderBot && !m.Pending
}
