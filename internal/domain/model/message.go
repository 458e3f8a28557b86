package model

import (
	"errors"
	"fmt"
)

// Action selects the semantics of an outbound room command.
type Action uint8

const (
	// [ZERO_VALUE_GUARD] WE START FROM 1 TO DISTINGUISH FROM UNINITIALIZED DATA
	ActionCreate Action = iota + 1
	ActionJoin
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionJoin:
		return "join"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// Opcode is the one-byte discriminator prefixed to every outbound command frame.
type Opcode byte

// Revision names an opcode numbering scheme understood by a server build.
type Revision int

const (
	// Revision1 is CREATE_ROOM=0, JOIN_ROOM=1.
	Revision1 Revision = 1
	// Revision2 is CREATE_ROOM=1, JOIN_ROOM=2.
	Revision2 Revision = 2

	DefaultRevision = Revision1
)

var (
	ErrUnknownRevision = errors.New("unknown protocol revision")
	ErrUnknownAction   = errors.New("unknown room action")
)

// opcodeTable maps [REVISION][ACTION] to the wire byte.
var opcodeTable = map[Revision]map[Action]Opcode{
	Revision1: {ActionCreate: 0, ActionJoin: 1},
	Revision2: {ActionCreate: 1, ActionJoin: 2},
}

// Opcode resolves the wire byte for the action under this revision.
func (r Revision) Opcode(a Action) (Opcode, error) {
	table, ok := opcodeTable[r]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRevision, int(r))
	}
	op, ok := table[a]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAction, a)
	}
	return op, nil
}

// Valid reports whether the revision has an opcode table.
func (r Revision) Valid() bool {
	_, ok := opcodeTable[r]
	return ok
}

// RoomCommand is a user-initiated create/join request.
type RoomCommand struct {
	Action Action
	Room   string
}

// IsEmpty reports whether the command has no room name and must not be sent.
func (c RoomCommand) IsEmpty() bool { return c.Room == "" }
