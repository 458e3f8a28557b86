package pubsub

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// FramesTopic carries every inbound frame of the session.
const FramesTopic = "im_room_client.frames"

// NewGoChannel builds the in-process bus between the socket reader and the dispatcher.
// Publishing blocks until the handler acks, so frames are rendered in arrival order.
func NewGoChannel(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: true,
	}, logger)
}

// NewWatermillLogger routes watermill's internal logs through slog.
func NewWatermillLogger(logger *slog.Logger) watermill.LoggerAdapter {
	return watermill.NewSlogLogger(logger.With("component", "watermill"))
}
