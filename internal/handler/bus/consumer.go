package bus

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/webitel/im-room-client/internal/adapter/pubsub"
	"github.com/webitel/im-room-client/internal/service"
)

// HandlerDispatchFrames is the router handler name of the dispatcher feed.
const HandlerDispatchFrames = "ON_FRAME_RECEIVED"

type FrameConsumer struct {
	logger     *slog.Logger
	dispatcher service.Dispatcher
}

func NewFrameConsumer(logger *slog.Logger, dispatcher service.Dispatcher) *FrameConsumer {
	return &FrameConsumer{logger: logger, dispatcher: dispatcher}
}

// [REGISTRATION_PIPELINE]
func (h *FrameConsumer) RegisterHandlers(router *message.Router, sub message.Subscriber) {
	configs := []struct {
		name    string
		topic   string
		handler message.NoPublishHandlerFunc
	}{
		{HandlerDispatchFrames, pubsub.FramesTopic, Bind(h, h.dispatcher.Handle)},
	}

	for _, c := range configs {
		router.AddConsumerHandler(c.name, c.topic, sub, c.handler).AddMiddleware(
			TraceIDMiddleware,
			LoggingMiddleware(h.logger),
			middleware.Recoverer,
		)
	}

	h.logger.Debug("FRAME_PIPELINE_READY", "topic", pubsub.FramesTopic)
}
