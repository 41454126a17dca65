package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/johndosdos/campus-connect/internal/model"
)

// JetStream is a Broker backed by a NATS JetStream stream, so every server
// instance sees the messages accepted by the others.
type JetStream struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewJetStream creates or updates the chat stream.
func NewJetStream(ctx context.Context, js jetstream.JetStream) (*JetStream, error) {
	if js == nil {
		return nil, fmt.Errorf("jetstream interface is nil")
	}

	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectGlobalRoom},
		MaxBytes: 1 << 30, // 1GB max storage
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create/update stream: %w", err)
	}

	return &JetStream{js: js, stream: stream}, nil
}

func (j *JetStream) Publish(ctx context.Context, payload model.ChatMessage) error {
	p, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("could not encode payload to JSON: %w", err)
	}

	pubAck, err := j.js.Publish(ctx,
		SubjectGlobalRoom,
		p,
		jetstream.WithMsgID(msgID(payload)),
	)
	if err != nil {
		return fmt.Errorf("failed to publish to stream [%s]: %w", SubjectGlobalRoom, err)
	}

	slog.DebugContext(ctx, "publish successful",
		slog.String("sender", payload.Sender),
		slog.Uint64("sequence", pubAck.Sequence),
		slog.Bool("duplicate", pubAck.Duplicate))

	return nil
}

// msgID keys JetStream's duplicate window on the stored message ID, so a
// retried publish of the same row is dropped.
func msgID(payload model.ChatMessage) string {
	if payload.ID == 0 {
		return uuid.NewString()
	}
	return strconv.FormatInt(payload.ID, 10)
}

// Subscribe starts an ephemeral consumer that only delivers messages
// published from now on.
func (j *JetStream) Subscribe(ctx context.Context, receiveMsg chan<- model.ChatMessage) error {
	consumer, err := j.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		DeliverPolicy: jetstream.DeliverNewPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create or update consumer: %w", err)
	}

	consumeHandler := func(msg jetstream.Msg) {
		var payload model.ChatMessage

		if err := json.Unmarshal(msg.Data(), &payload); err != nil {
			slog.Error("could not decode payload", slog.Any("error", err))
			if err := msg.Term(); err != nil {
				slog.Error("could not terminate message", slog.Any("error", err))
			}
			return
		}

		if err := msg.Ack(); err != nil {
			slog.Error("could not ack message", slog.Any("error", err))
		}

		select {
		case receiveMsg <- payload:
		case <-ctx.Done():
		}
	}

	optErrHandler := jetstream.ConsumeErrHandler(func(cc jetstream.ConsumeContext, err error) {
		slog.Error("consumer error", slog.Any("error", err))
	})

	consumeCtx, err := consumer.Consume(consumeHandler, optErrHandler)
	if err != nil {
		return fmt.Errorf("failed to start consuming messages: %w", err)
	}

	go func() {
		<-ctx.Done()
		consumeCtx.Drain()
	}()

	return nil
}
