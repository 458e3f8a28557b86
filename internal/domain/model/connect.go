package model

// SessionState tracks the single socket owned by a session.
type SessionState int32

const (
	SessionIdle SessionState = iota
	SessionConnecting
	SessionOpen
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionConnecting:
		return "connecting"
	case SessionOpen:
		return "open"
	case SessionClosed:
		return "closed"
	default:
		return "idle"
	}
}

