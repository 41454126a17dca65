package websocket

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/microcosm-cc/bluemonday"

	"github.com/johndosdos/campus-connect/internal/broker"
	"github.com/johndosdos/campus-connect/internal/database"
	"github.com/johndosdos/campus-connect/internal/model"
	"github.com/johndosdos/campus-connect/internal/moderation"
)

// Error strings sent to a client in {"error": ...} frames.
const (
	ErrMsgFlagged       = "Message flagged as inappropriate."
	ErrMsgInvalidFormat = "Invalid message format."
	ErrMsgEmpty         = "Message content cannot be empty."
	ErrMsgTooLong       = "Message is too long."
	ErrMsgRateLimited   = "You are sending messages too quickly. Try again later."
	ErrMsgNotDelivered  = "Message could not be delivered."
)

type sanitizer interface {
	Sanitize(s string) string
}

// MessageStore is the subset of database.Queries the hub needs.
type MessageStore interface {
	CreateMessage(ctx context.Context, arg database.CreateMessageParams) (database.Message, error)
	ListRecentMessages(ctx context.Context, limit int32) ([]database.Message, error)
}

// Moderator decides whether a message may be broadcast.
type Moderator interface {
	Check(ctx context.Context, content string) moderation.Verdict
}

// Options tunes per-client limits.
type Options struct {
	HistoryLimit     int
	MaxMessageLength int
	MessageBurst     int
	MessageWindow    time.Duration
	PingInterval     time.Duration
	WriteTimeout     time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxMessageLength <= 0 {
		o.MaxMessageLength = 2000
	}
	if o.MessageBurst <= 0 {
		o.MessageBurst = 30
	}
	if o.MessageWindow <= 0 {
		o.MessageWindow = time.Minute
	}
	if o.PingInterval <= 0 {
		o.PingInterval = 54 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 10 * time.Second
	}
	return o
}

type Registration struct {
	Client *Client
	Done   chan struct{}
}

// Inbound is a message accepted by a client's read loop, waiting to be
// persisted and published.
type Inbound struct {
	Client  *Client
	Message model.ChatMessage
}

// Hub contains functions needed for the app state management.
type Hub struct {
	store      MessageStore
	broker     broker.Broker
	moderator  Moderator
	sanitizer  sanitizer
	opts       Options
	clients    map[*Client]struct{}
	count      atomic.Int64
	done       chan struct{}
	Register   chan Registration
	Unregister chan *Client
	ClientMsg  chan Inbound
	BrokerMsg  chan model.ChatMessage
}

// NewHub returns a new instance of Hub.
func NewHub(store MessageStore, b broker.Broker, mod Moderator, opts Options) *Hub {
	return &Hub{
		store:      store,
		broker:     b,
		moderator:  mod,
		sanitizer:  bluemonday.StrictPolicy(),
		opts:       opts.withDefaults(),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
		Register:   make(chan Registration),
		Unregister: make(chan *Client),
		ClientMsg:  make(chan Inbound, 1024),
		BrokerMsg:  make(chan model.ChatMessage, 1024),
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Run manages incoming and outgoing hub traffic.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if err := h.broker.Subscribe(ctx, h.BrokerMsg); err != nil {
		slog.ErrorContext(ctx, "failed to subscribe to broker", slog.Any("error", err))
		return
	}

	for {
		select {
		case reg := <-h.Register:
			client := reg.Client
			h.clients[client] = struct{}{}
			h.count.Add(1)
			h.replayHistory(ctx, client)
			close(reg.Done)

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.count.Add(-1)
				close(client.MessageCh)
			}

		case in := <-h.ClientMsg:
			h.accept(ctx, in)

		case payload := <-h.BrokerMsg:
			frame := payload.Frame()
			for client := range h.clients {
				select {
				case client.MessageCh <- frame:
				default:
					slog.WarnContext(ctx, "skipping message payload - channel full or client slow",
						slog.String("user_id", client.User.ID.String()))
				}
			}

		case <-ctx.Done():
			slog.InfoContext(ctx, "hub stopped", slog.Any("reason", ctx.Err()))
			return
		}
	}
}

// plainText strips markup and decodes entities, so clients can treat
// content as plain text. Every check on a message runs on this form.
func (h *Hub) plainText(content string) string {
	return strings.TrimSpace(html.UnescapeString(h.sanitizer.Sanitize(content)))
}

// accept persists a moderated message and hands it to the broker. The
// broadcast happens when the broker delivers it back.
func (h *Hub) accept(ctx context.Context, in Inbound) {
	payload := in.Message

	created, err := h.store.CreateMessage(ctx, database.CreateMessageParams{
		UserID:    pgtype.UUID{Bytes: payload.UserID, Valid: true},
		Sender:    payload.Sender,
		Content:   payload.Content,
		CreatedAt: pgtype.Timestamptz{Time: payload.CreatedAt, Valid: true},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to store payload to database", slog.Any("error", err))
		h.sendTo(in.Client, model.ErrorFrame(ErrMsgNotDelivered))
		return
	}

	payload.ID = created.ID
	payload.CreatedAt = created.CreatedAt.Time

	if err := h.broker.Publish(ctx, payload); err != nil {
		slog.ErrorContext(ctx, "failed to publish message", slog.Any("error", err))
		h.sendTo(in.Client, model.ErrorFrame(ErrMsgNotDelivered))
	}
}

// replayHistory queues the most recent messages for a new client.
func (h *Hub) replayHistory(ctx context.Context, client *Client) {
	if h.opts.HistoryLimit <= 0 {
		return
	}

	history, err := h.store.ListRecentMessages(ctx, int32(h.opts.HistoryLimit))
	if err != nil {
		slog.ErrorContext(ctx, "failed to load messages from database", slog.Any("error", err))
		return
	}

	for _, msg := range history {
		payload := model.ChatMessage{
			ID:        msg.ID,
			UserID:    msg.UserID.Bytes,
			Sender:    msg.Sender,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.Time,
		}
		select {
		case client.MessageCh <- payload.Frame():
		default:
			return
		}
	}
}

func (h *Hub) sendTo(client *Client, frame model.Frame) {
	if client == nil {
		return
	}
	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.MessageCh <- frame:
	default:
	}
}

func (h *Hub) bufferSize() int {
	return max(64, h.opts.HistoryLimit+64)
}
