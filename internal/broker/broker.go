// Package broker fans chat messages out to every hub, in process or across
// server instances.
package broker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/johndosdos/campus-connect/internal/model"
)

// Broker delivers every published message to every subscriber.
type Broker interface {
	Publish(ctx context.Context, payload model.ChatMessage) error
	Subscribe(ctx context.Context, receiveMsg chan<- model.ChatMessage) error
}

// Local is an in-process Broker for single-instance deployments.
type Local struct {
	mu   sync.RWMutex
	subs map[int]chan<- model.ChatMessage
	next int
}

func NewLocal() *Local {
	return &Local{subs: make(map[int]chan<- model.ChatMessage)}
}

// Publish never blocks; a subscriber with a full channel misses the message.
func (l *Local) Publish(ctx context.Context, payload model.ChatMessage) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, ch := range l.subs {
		select {
		case ch <- payload:
		default:
			slog.WarnContext(ctx, "local broker subscriber is full; dropping message",
				slog.Int64("message_id", payload.ID))
		}
	}

	return nil
}

// Subscribe registers receiveMsg until ctx is done.
func (l *Local) Subscribe(ctx context.Context, receiveMsg chan<- model.ChatMessage) error {
	l.mu.Lock()
	id := l.next
	l.next++
	l.subs[id] = receiveMsg
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}()

	return nil
}
