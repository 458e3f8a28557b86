package service

import (
	"context"

	"github.com/webitel/im-room-client/internal/domain/model"
)

// Sender is the outbound half of a session. Implementations encode for the wire.
type Sender interface {
	SendTelemetry(ctx context.Context, snapshot model.TelemetrySnapshot) error
	SendCommand(ctx context.Context, cmd model.RoomCommand) error
}

// Display receives rendered output lines.
type Display interface {
	Print(text string)
}
