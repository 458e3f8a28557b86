package wsmarshaller

import (
	"fmt"

	"github.com/webitel/im-room-client/internal/domain/model"
)

// CommandHeaderSize is the opcode prefix; the room name fills the rest of the frame.
const CommandHeaderSize = 1

// MarshallCommand packs a room command as [opcode][UTF-8 name].
// The name is copied unmodified and unterminated: its length is implied by the frame length.
// Callers drop empty commands before encoding; an empty name is still encoded here
// so the encoder stays a pure function of its input.
func MarshallCommand(rev model.Revision, cmd model.RoomCommand) ([]byte, error) {
	op, err := rev.Opcode(cmd.Action)
	if err != nil {
		return nil, fmt.Errorf("marshal %s command: %w", cmd.Action, err)
	}

	buf := make([]byte, CommandHeaderSize+len(cmd.Room))
	buf[0] = byte(op)
	copy(buf[CommandHeaderSize:], cmd.Room)
	return buf, nil
}

