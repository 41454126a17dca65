// Package websocket runs the chat hub and the per-connection read and
// write loops.
package websocket

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/time/rate"

	"github.com/johndosdos/campus-connect/internal/auth"
	"github.com/johndosdos/campus-connect/internal/model"
)

type Client struct {
	User       auth.User
	conn       *websocket.Conn
	hub        *Hub
	MessageCh  chan model.Frame
	messageLim *rate.Limiter
}

func NewClient(conn *websocket.Conn, user auth.User, hub *Hub) *Client {
	c := &Client{
		User:      user,
		conn:      conn,
		hub:       hub,
		MessageCh: make(chan model.Frame, hub.bufferSize()),
	}
	c.SetMessageLimiter(hub.opts.MessageBurst, hub.opts.MessageWindow)
	return c
}

func (c *Client) SetMessageLimiter(requests int, window time.Duration) {
	l := rate.NewLimiter(rate.Every(window/time.Duration(requests)), requests)
	c.messageLim = l
}

// Join registers the client with the hub and waits until the hub has
// queued its history. It reports false when the hub is no longer running.
func (c *Client) Join(ctx context.Context) bool {
	reg := Registration{
		Client: c,
		Done:   make(chan struct{}),
	}

	select {
	case c.hub.Register <- reg:
	case <-c.hub.done:
		return false
	case <-ctx.Done():
		return false
	}

	select {
	case <-reg.Done:
		return true
	case <-c.hub.done:
		return false
	}
}

// WriteMessage writes frames to the outgoing websocket stream and keeps the
// connection alive with pings.
func (c *Client) WriteMessage(ctx context.Context) {
	// Firewalls and proxies drop connections that look idle, so we ping
	// within their deadline.
	ticker := time.NewTicker(c.hub.opts.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case frame, ok := <-c.MessageCh:
			// We don't want to continue processing when the channel has already been
			// closed.
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "")
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, c.hub.opts.WriteTimeout)
			err := wsjson.Write(writeCtx, c.conn, frame)
			cancel()
			if err != nil {
				slog.WarnContext(ctx, "failed to write frame",
					slog.Any("error", err),
					slog.String("user_id", c.User.ID.String()))
				c.conn.CloseNow()
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, c.hub.opts.WriteTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				slog.InfoContext(ctx, "failed to send ping signal",
					slog.Any("error", err),
					slog.String("user_id", c.User.ID.String()))
				c.conn.CloseNow()
				return
			}

		case <-c.hub.done:
			c.conn.Close(websocket.StatusGoingAway, "server shutting down")
			return

		case <-ctx.Done():
			c.conn.Close(websocket.StatusGoingAway, "context cancelled")
			return
		}
	}
}

// sendError queues an error frame for this client only.
func (c *Client) sendError(msg string) {
	select {
	case c.MessageCh <- model.ErrorFrame(msg):
	default:
	}
}
