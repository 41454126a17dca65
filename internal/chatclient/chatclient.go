// Package chatclient is a terminal rendition of the chat page: it signs in,
// joins the room over a websocket and formats what the server sends.
package chatclient

import (
	"errors"
	"strings"

	"github.com/johndosdos/campus-connect/internal/model"
)

var (
	ErrUnauthorized = errors.New("chatclient: invalid authentication credentials")
	ErrClosed       = errors.New("chatclient: session closed")
)

// Compose turns raw input into an outbound frame. Input that is empty after
// trimming produces nothing.
func Compose(input string) (model.Outbound, bool) {
	content := strings.TrimSpace(input)
	if content == "" {
		return model.Outbound{}, false
	}
	return model.Outbound{Content: content}, true
}

// Line is one rendered entry of the message log.
type Line struct {
	Alert bool
	Text  string
}

// Render formats a server frame the way the page does.
func Render(f model.Frame) Line {
	if f.IsError() {
		return Line{Alert: true, Text: f.Error}
	}
	return Line{Text: f.Sender + " [" + f.Timestamp + "]: " + f.Content}
}
