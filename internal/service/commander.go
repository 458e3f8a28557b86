package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/webitel/im-room-client/internal/domain/model"
	"github.com/webitel/im-room-client/internal/domain/registry"
)

// [COMMAND_SERVICE] TURNS USER INPUT INTO ROOM COMMANDS
type Commander interface {
	Create(ctx context.Context, room string) error
	Join(ctx context.Context, room string) error
}

type CommandService struct {
	sender    Sender
	directory registry.Directorier
	logger    *slog.Logger
}

func NewCommandService(sender Sender, directory registry.Directorier, logger *slog.Logger) *CommandService {
	return &CommandService{
		sender:    sender,
		directory: directory,
		logger:    logger,
	}
}

func (s *CommandService) Create(ctx context.Context, room string) error {
	sent, err := s.send(ctx, model.RoomCommand{Action: model.ActionCreate, Room: room})
	if sent {
		s.directory.Add(room)
	}
	return err
}

func (s *CommandService) Join(ctx context.Context, room string) error {
	if room != "" && !s.directory.Contains(room) {
		// [ADVISORY] The server is the authority on rooms; the join still goes out.
		s.logger.Warn("JOIN_UNKNOWN_ROOM", "room", room)
	}
	_, err := s.send(ctx, model.RoomCommand{Action: model.ActionJoin, Room: room})
	return err
}

// send reports whether a frame was handed to the transport.
func (s *CommandService) send(ctx context.Context, cmd model.RoomCommand) (bool, error) {
	// [NO_OP] An empty field sends nothing and is not an error.
	if cmd.IsEmpty() {
		return false, nil
	}

	if err := s.sender.SendCommand(ctx, cmd); err != nil {
		s.logger.Warn("ROOM_COMMAND_SEND_FAILED",
			"action", cmd.Action.String(),
			"room", cmd.Room,
			"err", err,
		)
		return false, fmt.Errorf("%s room %q: %w", cmd.Action, cmd.Room, err)
	}

	s.logger.Debug("ROOM_COMMAND_SENT",
		"action", cmd.Action.String(),
		"room", cmd.Room,
	)
	return true, nil
}
