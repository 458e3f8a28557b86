package bus

import (
	"context"
	"runtime/debug"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/webitel/im-room-client/internal/adapter/pubsub"
	"github.com/webitel/im-room-client/internal/domain/model"
)

// FrameHandler is the functional signature for frame consumers.
type FrameHandler func(ctx context.Context, frame model.Frame) error

// [INFRASTRUCTURE_BRIDGE]
// Bind connects Watermill to the dispatcher, handling panic recovery and decoding.
// Every outcome is acked: a frame that cannot be rendered is not worth redelivering.
func Bind(h *FrameConsumer, fn FrameHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		// [PANIC_RECOVERY]
		// Safely handle runtime panics to keep the consumer alive.
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("PANIC_RECOVERED",
					"err", r,
					"stack", string(debug.Stack()),
					"msg_id", msg.UUID)
			}
		}()

		// [DECODING]
		frame, err := pubsub.DecodeFrame(msg)
		if err != nil {
			h.logger.Error("DECODE_FAILED", "err", err, "msg_id", msg.UUID)
			return nil // ACK: Poison Pill protection.
		}

		// [EXECUTION]
		if err := fn(msg.Context(), frame); err != nil {
			h.logger.Warn("FRAME_REJECTED",
				"err", err,
				"kind", frame.Kind.String(),
				"msg_id", msg.UUID)
		}
		return nil
	}
}
