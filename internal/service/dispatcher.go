package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/webitel/im-room-client/internal/domain/model"
	"github.com/webitel/im-room-client/internal/domain/registry"
	wsmarshaller "github.com/webitel/im-room-client/internal/handler/marshaller/ws"
)

// Output line formats.
const (
	LineNoRooms     = "No rooms"
	LineRoomsHeader = "Rooms:"
	roomLinePrefix  = "- "
	msgLinePrefix   = "Msg: "
	closeLinePrefix = "Close: "
	errLinePrefix   = "Err:"
)

// [DISPATCH_SERVICE] RENDERS INBOUND FRAMES AS OUTPUT LINES
type Dispatcher interface {
	Handle(ctx context.Context, frame model.Frame) error
	State() model.DispatchState
}

// DispatchService is the per-session two-state machine. The first server message is the
// room directory, every later one is shown verbatim. It never returns to StateInitial.
type DispatchService struct {
	mu    sync.Mutex
	state model.DispatchState

	display   Display
	directory registry.Directorier
	logger    *slog.Logger
}

func NewDispatchService(display Display, directory registry.Directorier, logger *slog.Logger) *DispatchService {
	return &DispatchService{
		state:     model.StateInitial,
		display:   display,
		directory: directory,
		logger:    logger,
	}
}

func (d *DispatchService) State() model.DispatchState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *DispatchService) Handle(_ context.Context, frame model.Frame) error {
	switch frame.Kind {
	case model.FrameText:
		d.onMessage(frame.Text())
	case model.FrameBinary:
		// [BEST_EFFORT] Binary payloads are shown as text with invalid bytes replaced.
		d.onMessage(strings.ToValidUTF8(frame.Text(), "\uFFFD"))
	case model.FrameClosed:
		d.display.Print(closeLinePrefix + frame.Text())
	case model.FrameError:
		d.display.Print(errLinePrefix + frame.Text())
	default:
		return fmt.Errorf("dispatch: unsupported frame kind %d", frame.Kind)
	}
	return nil
}

func (d *DispatchService) onMessage(payload string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == model.StateSteady {
		d.display.Print(msgLinePrefix + payload)
		return
	}

	// [TRANSITION] Exactly once, whatever the directory contained.
	d.state = model.StateSteady

	names := wsmarshaller.UnmarshallDirectory(payload)
	d.directory.Replace(names)
	d.logger.Debug("ROOM_DIRECTORY_RECEIVED", "rooms", len(names))

	if len(names) == 0 {
		d.display.Print(LineNoRooms)
		return
	}

	d.display.Print(LineRoomsHeader)
	for _, name := range names {
		d.display.Print(roomLinePrefix + name)
	}
}
