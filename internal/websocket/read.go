package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/coder/websocket"

	"github.com/johndosdos/campus-connect/internal/model"
)

// ReadMessage reads the incoming data from the websocket stream until the
// connection ends, then unregisters the client.
func (c *Client) ReadMessage(ctx context.Context) {
	defer func() {
		select {
		case c.hub.Unregister <- c:
		case <-c.hub.done:
		}
		c.conn.CloseNow()
	}()

	for {
		msgType, p, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure &&
				status != websocket.StatusGoingAway &&
				status != -1 {
				slog.InfoContext(ctx, "connection closed",
					slog.Any("error", err),
					slog.String("user_id", c.User.ID.String()))
			}
			return
		}

		// The app only supports text format.
		if msgType != websocket.MessageText {
			continue
		}

		var out model.Outbound
		if err := json.Unmarshal(p, &out); err != nil {
			c.sendError(ErrMsgInvalidFormat)
			continue
		}

		content := c.hub.plainText(out.Content)
		switch {
		case content == "":
			c.sendError(ErrMsgEmpty)
			continue
		case utf8.RuneCountInString(content) > c.hub.opts.MaxMessageLength:
			c.sendError(ErrMsgTooLong)
			continue
		case !c.messageLim.Allow():
			c.sendError(ErrMsgRateLimited)
			continue
		}

		if verdict := c.hub.moderator.Check(ctx, content); verdict.Flagged {
			slog.InfoContext(ctx, "message flagged",
				slog.String("user_id", c.User.ID.String()),
				slog.String("reason", string(verdict.Reason)))
			c.sendError(ErrMsgFlagged)
			continue
		}

		in := Inbound{
			Client: c,
			Message: model.ChatMessage{
				UserID:    c.User.ID,
				Sender:    c.User.DisplayName(),
				Content:   content,
				CreatedAt: time.Now().UTC(),
			},
		}

		select {
		case c.hub.ClientMsg <- in:
		case <-c.hub.done:
			return
		case <-ctx.Done():
			return
		}
	}
}
