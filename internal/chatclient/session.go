package chatclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/johndosdos/campus-connect/internal/model"
)

// Session is an open connection to the chat room.
type Session struct {
	conn *websocket.Conn

	mu     sync.Mutex
	closed bool
}

// Dial joins the room at serverURL (http or https) using token.
func Dial(ctx context.Context, serverURL, token string) (*Session, error) {
	wsURL, err := socketURL(serverURL, token)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("chatclient: dial %s: %w", serverURL, err)
	}
	conn.SetReadLimit(1 << 20)

	return &Session{conn: conn}, nil
}

func socketURL(serverURL, token string) (string, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("chatclient: parse server url: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("chatclient: unsupported scheme %q", u.Scheme)
	}

	u.Path += "/ws/chat"
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}

// Send composes input and writes it. It reports false when the input was
// empty and nothing was sent.
func (s *Session) Send(ctx context.Context, input string) (bool, error) {
	out, ok := Compose(input)
	if !ok {
		return false, nil
	}

	if err := wsjson.Write(ctx, s.conn, out); err != nil {
		return false, fmt.Errorf("chatclient: send: %w", err)
	}
	return true, nil
}

// Receive blocks for the next frame. A policy violation close from the
// server is reported as ErrUnauthorized.
func (s *Session) Receive(ctx context.Context) (model.Frame, error) {
	var f model.Frame
	err := wsjson.Read(ctx, s.conn, &f)
	switch {
	case err == nil:
		return f, nil
	case websocket.CloseStatus(err) == websocket.StatusPolicyViolation:
		return model.Frame{}, ErrUnauthorized
	case websocket.CloseStatus(err) != -1:
		return model.Frame{}, ErrClosed
	default:
		return model.Frame{}, fmt.Errorf("chatclient: receive: %w", err)
	}
}

// Close leaves the room. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close(websocket.StatusNormalClosure, "bye")
}
