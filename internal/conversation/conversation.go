// Package conversation defines the client-side data model: conversations,
// their ordered messages with citations, and the uploaded document.
package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// DefaultTitle is the title given to a conversation started locally.
const DefaultTitle = "New Conversation"

// maxTitleWidth bounds titles derived from a first question.
const maxTitleWidth = 40

// MessageType distinguishes user questions from backend answers.
type MessageType string

const (
	TypeQuestion MessageType = "question"
	TypeAnswer   MessageType = "answer"
)

// ParseMessageType validates a wire value.
func ParseMessageType(s string) (MessageType, error) {
	switch MessageType(s) {
	case TypeQuestion, TypeAnswer:
		return MessageType(s), nil
	default:
		return "", fmt.Errorf("unknown message type %q", s)
	}
}

// Status tracks whether a message has been acknowledged by the backend.
type Status int

const (
	StatusConfirmed Status = iota
	StatusPending
)

func (s Status) String() string {
	if s == StatusPending {
		return "pending"
	}
	return "confirmed"
}

// Citation points at the passage of a document that supports an answer.
type Citation struct {
	Document string
	Page     int
	Text     string
}

// String renders the citation the way the chat panel shows it.
func (c Citation) String() string {
	return fmt.Sprintf("%s, Page %d: %q", c.Document, c.Page, c.Text)
}

// Message is a single question or answer.
type Message struct {
	ID        ID
	Content   string
	Type      MessageType
	Timestamp time.Time
	Citations []Citation
	Status    Status
}

// Clone returns a deep copy.
func (m Message) Clone() Message {
	if m.Citations != nil {
		m.Citations = append([]Citation(nil), m.Citations...)
	}
	return m
}

// Conversation is an ordered exchange of messages.
type Conversation struct {
	ID        ID
	Title     string
	Timestamp time.Time
	Messages  []Message
}

// NewDraft returns an empty, locally owned conversation.
func NewDraft(id ID, now time.Time) Conversation {
	return Conversation{
		ID:        id,
		Title:     DefaultTitle,
		Timestamp: now,
		Messages:  []Message{},
	}
}

// Clone returns a deep copy so callers can't mutate store-held state.
func (c Conversation) Clone() Conversation {
	msgs := make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		msgs[i] = m.Clone()
	}
	c.Messages = msgs
	return c
}

// IndexOf returns the position of the message with the given id, or -1.
func (c *Conversation) IndexOf(id ID) int {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return i
		}
	}
	return -1
}

// LastAnswer returns the most recent answer message.
func (c *Conversation) LastAnswer() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Type == TypeAnswer {
			return c.Messages[i], true
		}
	}
	return Message{}, false
}

// HasPending reports whether any message still awaits the backend.
func (c *Conversation) HasPending() bool {
	for i := range c.Messages {
		if c.Messages[i].Status == StatusPending {
			return true
		}
	}
	return false
}

// TitleFromQuestion derives a display title from the first question asked
// in a draft: first line, trimmed to maxTitleWidth columns.
func TitleFromQuestion(q string) string {
	q = strings.TrimSpace(q)
	if i := strings.IndexByte(q, '\n'); i >= 0 {
		q = strings.TrimSpace(q[:i])
	}
	if q == "" {
		return DefaultTitle
	}
	return runewidth.Truncate(q, maxTitleWidth, "…")
}

// Document is the PDF the user uploaded for the current conversation.
type Document struct {
	ID         string
	Name       string
	UploadDate time.Time
}
