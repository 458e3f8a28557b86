package model

import "time"

// FrameKind classifies everything the connection can surface to the dispatcher.
type FrameKind int16

const (
	FrameText   FrameKind = iota + 1 // [SERVER] text message
	FrameBinary                      // [SERVER] binary message, displayed best effort
	FrameClosed                      // [LIFECYCLE] connection closed, Data holds the reason
	FrameError                       // [LIFECYCLE] transport error, Data holds the error text
)

func (k FrameKind) String() string {
	switch k {
	case FrameText:
		return "text"
	case FrameBinary:
		return "binary"
	case FrameClosed:
		return "closed"
	case FrameError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseFrameKind is the inverse of FrameKind.String.
func ParseFrameKind(s string) (FrameKind, bool) {
	for _, k := range []FrameKind{FrameText, FrameBinary, FrameClosed, FrameError} {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// Frame is one inbound event on a session.
type Frame struct {
	Kind       FrameKind
	SessionID  string
	Data       []byte
	ReceivedAt time.Time
}

// Text returns the payload as a string.
func (f Frame) Text() string { return string(f.Data) }

// DispatchState is the inbound dispatcher's position in the message stream.
type DispatchState int32

const (
	// StateInitial expects the room directory.
	StateInitial DispatchState = iota
	// StateSteady displays every message verbatim.
	StateSteady
)

func (s DispatchState) String() string {
	if s == StateSteady {
		return "steady"
	}
	return "initial"
}
