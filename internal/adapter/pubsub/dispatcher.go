package pubsub

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/webitel/im-room-client/internal/domain/model"
)

// Metadata keys of a frame message.
const (
	MetaKind       = "frame_kind"
	MetaSessionID  = "session_id"
	MetaReceivedAt = "received_at"
)

// FrameDispatcher defines the contract for pushing inbound frames onto the bus.
// This allows the socket reader to stay agnostic of the transport implementation.
type FrameDispatcher interface {
	Publish(ctx context.Context, frame model.Frame) error
}

// frameDispatcher is the concrete implementation (private).
type frameDispatcher struct {
	publisher message.Publisher
	topic     string
}

// NewFrameDispatcher returns the interface instead of the pointer to the struct.
func NewFrameDispatcher(pub message.Publisher) FrameDispatcher {
	return &frameDispatcher{
		publisher: pub,
		topic:     FramesTopic,
	}
}

func (d *frameDispatcher) Publish(ctx context.Context, frame model.Frame) error {
	msg := EncodeFrame(frame)
	msg.SetContext(ctx)

	if err := d.publisher.Publish(d.topic, msg); err != nil {
		return fmt.Errorf("frame dispatcher: failed to publish to topic %s: %w", d.topic, err)
	}
	return nil
}

// EncodeFrame maps a frame onto a watermill message: payload as is, the rest in metadata.
func EncodeFrame(frame model.Frame) *message.Message {
	msg := message.NewMessage(watermill.NewUUID(), frame.Data)
	msg.Metadata.Set(MetaKind, frame.Kind.String())
	msg.Metadata.Set(MetaSessionID, frame.SessionID)
	if !frame.ReceivedAt.IsZero() {
		msg.Metadata.Set(MetaReceivedAt, frame.ReceivedAt.Format(time.RFC3339Nano))
	}
	return msg
}

// DecodeFrame is the inverse of EncodeFrame.
func DecodeFrame(msg *message.Message) (model.Frame, error) {
	kind, ok := model.ParseFrameKind(msg.Metadata.Get(MetaKind))
	if !ok {
		return model.Frame{}, fmt.Errorf("decode frame %s: unknown kind %q", msg.UUID, msg.Metadata.Get(MetaKind))
	}

	frame := model.Frame{
		Kind:      kind,
		SessionID: msg.Metadata.Get(MetaSessionID),
		Data:      msg.Payload,
	}

	if raw := msg.Metadata.Get(MetaReceivedAt); raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return model.Frame{}, fmt.Errorf("decode frame %s: %w", msg.UUID, err)
		}
		frame.ReceivedAt = at
	}

	return frame, nil
}
