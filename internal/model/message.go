// Package model defines data structure.
package model

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the wire format of Frame.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Outbound is what a client sends over the socket.
type Outbound struct {
	Content string `json:"content"`
}

// Frame is what the server sends over the socket. Either Error is set, or
// Sender, Content and Timestamp are.
type Frame struct {
	Error     string `json:"error,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Content   string `json:"content,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// IsError reports whether the frame carries a server-side rejection.
func (f Frame) IsError() bool {
	return f.Error != ""
}

// ErrorFrame builds a frame that only carries an error string.
func ErrorFrame(msg string) Frame {
	return Frame{Error: msg}
}

// ChatMessage represents a message for the chat application,
// used for both broker payloads and WebSocket communication.
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Frame converts the message to its wire form.
func (m ChatMessage) Frame() Frame {
	return Frame{
		Sender:    m.Sender,
		Content:   m.Content,
		Timestamp: FormatTimestamp(m.CreatedAt),
	}
}

// FormatTimestamp renders t in UTC with microsecond precision and a Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
