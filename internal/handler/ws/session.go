package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"
	"github.com/webitel/im-room-client/internal/adapter/pubsub"
	"github.com/webitel/im-room-client/internal/domain/model"
	wsmarshaller "github.com/webitel/im-room-client/internal/handler/marshaller/ws"
	"github.com/webitel/im-room-client/internal/service"
)

var (
	// ErrSessionClosed is returned by sends after the connection closed or failed.
	ErrSessionClosed = errors.New("session closed")
	// ErrNotConnected is returned by sends before Open succeeded.
	ErrNotConnected = errors.New("session not connected")
)

// Dialer opens the underlying connection.
type Dialer interface {
	Dial(ctx context.Context) (*websocket.Conn, error)
}

// Settings carries the wire options of a session.
type Settings struct {
	Revision       model.Revision
	ChargingFormat model.ChargingFormat
	WriteTimeout   time.Duration
	CloseTimeout   time.Duration
}

var _ service.Sender = (*Session)(nil)

// Session owns the single connection of the process: the socket handle, the one-shot
// telemetry guard and the read pump feeding the frame bus. There is no reconnection;
// once closed a session stays closed.
type Session struct {
	id       string
	settings Settings

	dialer    Dialer
	reporter  service.Reporter
	frames    pubsub.FrameDispatcher
	breaker   *gobreaker.CircuitBreaker
	logger    *slog.Logger
	telemetry sync.Once

	// reported is closed once the telemetry report finished, sent or not.
	// Room commands wait on it so the server always sees telemetry first.
	reported     chan struct{}
	reportedOnce sync.Once

	state   atomic.Int32
	conn    *websocket.Conn
	writeMu sync.Mutex

	// ctx bounds work started on behalf of the connection (telemetry, publishing).
	ctx     context.Context
	cancel  context.CancelFunc
	closing atomic.Bool
	done    chan struct{}
}

func NewSession(dialer Dialer, reporter service.Reporter, frames pubsub.FrameDispatcher, settings Settings, logger *slog.Logger) *Session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		id:       id,
		settings: settings,
		dialer:   dialer,
		reporter: reporter,
		frames:   frames,
		logger:   logger.With("session_id", id),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
		reported: make(chan struct{}),
	}

	// [RESILIENCE] One failed write opens the breaker; the session never recovers,
	// so later sends fail fast without touching the socket.
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ws-send-" + id[:8],
		MaxRequests: 1,
		Timeout:     time.Hour,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn("SEND_BREAKER_STATE_CHANGED",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() model.SessionState { return model.SessionState(s.state.Load()) }

// Done is closed once the read pump exited and the close line was published.
func (s *Session) Done() <-chan struct{} { return s.done }

// Open dials the server, starts the read pump and schedules the telemetry report.
// Calling Open on an open session is a no-op; a closed session cannot be reopened.
func (s *Session) Open(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(model.SessionIdle), int32(model.SessionConnecting)) {
		if s.State() == model.SessionClosed {
			return ErrSessionClosed
		}
		// [IDEMPOTENT] Connecting or open already; the telemetry guard still applies.
		s.onOpen()
		return nil
	}

	conn, err := s.dialer.Dial(ctx)
	if err != nil {
		s.state.Store(int32(model.SessionClosed))
		s.cancel()
		close(s.done)
		return fmt.Errorf("open session: %w", err)
	}

	s.conn = conn
	s.state.Store(int32(model.SessionOpen))
	s.logger.Info("SESSION_OPENED", "remote", conn.RemoteAddr().String())

	go s.readPump()
	s.onOpen()
	return nil
}

// onOpen fires the telemetry report at most once per session.
func (s *Session) onOpen() {
	s.telemetry.Do(func() {
		go func() {
			defer s.releaseCommands()
			_ = s.reporter.Report(s.ctx, s)
		}()
	})
}

func (s *Session) releaseCommands() {
	s.reportedOnce.Do(func() { close(s.reported) })
}

// awaitTelemetry holds a command until the telemetry frame left, the session
// ended or ctx expired.
func (s *Session) awaitTelemetry(ctx context.Context) error {
	select {
	case <-s.reported:
		return nil
	case <-s.ctx.Done():
		return ErrSessionClosed
	case <-ctx.Done():
		return fmt.Errorf("await telemetry: %w", ctx.Err())
	}
}

// [READ_PUMP] Every inbound event becomes a frame on the bus, including the terminal ones.
func (s *Session) readPump() {
	defer close(s.done)
	defer s.cancel()

	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			s.state.Store(int32(model.SessionClosed))
			s.publishTerminal(err)
			_ = s.conn.Close()
			return
		}

		frame := model.Frame{
			Kind:       model.FrameText,
			SessionID:  s.id,
			Data:       data,
			ReceivedAt: time.Now(),
		}
		if kind == websocket.BinaryMessage {
			frame.Kind = model.FrameBinary
		}
		s.publish(frame)
	}
}

func (s *Session) publishTerminal(err error) {
	now := time.Now()

	// gorilla reports a dropped TCP stream as a 1006 CloseError; that is a failure, not a close.
	var ce *websocket.CloseError
	switch {
	case errors.As(err, &ce) && ce.Code != websocket.CloseAbnormalClosure:
		s.logger.Info("SESSION_CLOSED", "code", ce.Code, "reason", ce.Text)
		s.publish(model.Frame{Kind: model.FrameClosed, SessionID: s.id, Data: []byte(ce.Text), ReceivedAt: now})
	case s.closing.Load():
		// [LOCAL_CLOSE] The peer did not answer our close frame in time.
		s.logger.Info("SESSION_CLOSED", "reason", "local")
		s.publish(model.Frame{Kind: model.FrameClosed, SessionID: s.id, ReceivedAt: now})
	default:
		// [ABNORMAL] An error is always followed by a close without reason.
		s.logger.Warn("SESSION_FAILED", "err", err)
		s.publish(model.Frame{Kind: model.FrameError, SessionID: s.id, Data: []byte(err.Error()), ReceivedAt: now})
		s.publish(model.Frame{Kind: model.FrameClosed, SessionID: s.id, ReceivedAt: now})
	}
}

func (s *Session) publish(frame model.Frame) {
	// Terminal frames are published after s.ctx is cancelled, so the bus gets its own context.
	if err := s.frames.Publish(context.Background(), frame); err != nil {
		s.logger.Error("FRAME_PUBLISH_FAILED", "err", err, "kind", frame.Kind.String())
	}
}

// SendTelemetry writes the snapshot as a single text frame.
func (s *Session) SendTelemetry(ctx context.Context, snapshot model.TelemetrySnapshot) error {
	payload := wsmarshaller.MarshallTelemetry(snapshot, s.settings.ChargingFormat)
	return s.write(ctx, websocket.TextMessage, []byte(payload))
}

// SendCommand writes a binary room command once the telemetry frame is out.
// No reply is awaited.
func (s *Session) SendCommand(ctx context.Context, cmd model.RoomCommand) error {
	frame, err := wsmarshaller.MarshallCommand(s.settings.Revision, cmd)
	if err != nil {
		return err
	}
	if err := s.checkState(); err != nil {
		return err
	}
	if err := s.awaitTelemetry(ctx); err != nil {
		return err
	}
	return s.write(ctx, websocket.BinaryMessage, frame)
}

func (s *Session) checkState() error {
	switch s.State() {
	case model.SessionOpen:
		return nil
	case model.SessionClosed:
		return ErrSessionClosed
	default:
		return ErrNotConnected
	}
}

func (s *Session) write(ctx context.Context, messageType int, data []byte) error {
	if err := s.checkState(); err != nil {
		return err
	}

	_, err := s.breaker.Execute(func() (interface{}, error) {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		if s.State() != model.SessionOpen {
			return nil, ErrSessionClosed
		}

		_ = s.conn.SetWriteDeadline(s.deadline(ctx, s.settings.WriteTimeout))
		return nil, s.conn.WriteMessage(messageType, data)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrSessionClosed, err)
	default:
		return fmt.Errorf("write: %w", err)
	}
}

func (s *Session) deadline(ctx context.Context, timeout time.Duration) time.Time {
	var d time.Time
	if timeout > 0 {
		d = time.Now().Add(timeout)
	}
	if cd, ok := ctx.Deadline(); ok && (d.IsZero() || cd.Before(d)) {
		d = cd
	}
	return d
}

// Close sends a normal close frame and waits for the read pump to observe the
// peer's answer, bounded by CloseTimeout and ctx.
func (s *Session) Close(ctx context.Context) error {
	if s.State() != model.SessionOpen {
		s.cancel()
		return nil
	}
	if !s.closing.CompareAndSwap(false, true) {
		<-s.done
		return nil
	}

	s.writeMu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := s.conn.WriteControl(websocket.CloseMessage, msg, s.deadline(ctx, s.settings.WriteTimeout))
	s.writeMu.Unlock()

	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		s.logger.Debug("CLOSE_FRAME_FAILED", "err", err)
	}

	timer := time.NewTimer(s.settings.CloseTimeout)
	defer timer.Stop()

	select {
	case <-s.done:
	case <-timer.C:
		_ = s.conn.Close()
		<-s.done
	case <-ctx.Done():
		_ = s.conn.Close()
		<-s.done
	}
	return nil
}
