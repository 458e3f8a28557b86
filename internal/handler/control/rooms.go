package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/webitel/im-room-client/internal/domain/model"
	"github.com/webitel/im-room-client/internal/domain/output"
	"github.com/webitel/im-room-client/internal/domain/registry"
	wsmarshaller "github.com/webitel/im-room-client/internal/handler/marshaller/ws"
	"github.com/webitel/im-room-client/internal/handler/ws"
	"github.com/webitel/im-room-client/internal/service"
)

// SessionStater exposes the connection state for health checks.
type SessionStater interface {
	State() model.SessionState
}

type ControlHandler struct {
	commander service.Commander
	reporter  service.Reporter
	lines     *output.Log
	directory registry.Directorier
	session   SessionStater
	charging  model.ChargingFormat
	logger    *slog.Logger
}

func NewControlHandler(
	commander service.Commander,
	reporter service.Reporter,
	lines *output.Log,
	directory registry.Directorier,
	session SessionStater,
	charging model.ChargingFormat,
	logger *slog.Logger,
) *ControlHandler {
	return &ControlHandler{
		commander: commander,
		reporter:  reporter,
		lines:     lines,
		directory: directory,
		session:   session,
		charging:  charging,
		logger:    logger,
	}
}

// Routes mounts the control API.
func (h *ControlHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Route("/rooms", func(r chi.Router) {
		r.Get("/", h.Rooms)
		r.Post("/create", h.Create)
		r.Post("/join", h.Join)
	})
	r.Get("/log", h.Log)
	r.Get("/telemetry", h.Telemetry)
	r.Get("/healthz", h.Health)

	return r
}

type roomRequest struct {
	Name string `json:"name"`
}

type sendResponse struct {
	Sent bool   `json:"sent"`
	Room string `json:"room,omitempty"`
}

func (h *ControlHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.commander.Create)
}

func (h *ControlHandler) Join(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.commander.Join)
}

func (h *ControlHandler) command(w http.ResponseWriter, r *http.Request, send func(ctx context.Context, room string) error) {
	name, err := roomName(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// [NO_OP] An empty name is accepted and sends nothing.
	if name == "" {
		writeJSON(w, http.StatusAccepted, sendResponse{Sent: false})
		return
	}

	if err := send(r.Context(), name); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, ws.ErrSessionClosed) || errors.Is(err, ws.ErrNotConnected) {
			status = http.StatusConflict
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusAccepted, sendResponse{Sent: true, Room: name})
}

// roomName reads "name" from a JSON body or from form values.
func roomName(r *http.Request) (string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req roomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", fmt.Errorf("decode body: %w", err)
		}
		return req.Name, nil
	}
	return r.FormValue("name"), nil
}

func (h *ControlHandler) Rooms(w http.ResponseWriter, _ *http.Request) {
	names := h.directory.Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": names})
}

type lineResponse struct {
	Seq  uint64 `json:"seq"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

// Log returns output lines, optionally only those after ?since=<seq>.
func (h *ControlHandler) Log(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("since: %w", err))
			return
		}
		since = v
	}

	res := make([]lineResponse, 0)
	for _, l := range h.lines.Lines() {
		if l.Seq <= since {
			continue
		}
		res = append(res, lineResponse{Seq: l.Seq, Text: l.Text, At: l.At.UnixMilli()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": res})
}

type fieldResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Telemetry previews the snapshot this client reports, without sending it.
func (h *ControlHandler) Telemetry(w http.ResponseWriter, r *http.Request) {
	fields := wsmarshaller.TelemetryFields(h.reporter.Snapshot(r.Context()), h.charging)

	res := make([]fieldResponse, len(fields))
	for i, v := range fields {
		res[i] = fieldResponse{Name: model.TelemetryFieldNames[i], Value: v}
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": res})
}

func (h *ControlHandler) Health(w http.ResponseWriter, _ *http.Request) {
	state := h.session.State()
	status := http.StatusOK
	if state != model.SessionOpen {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"session": state.String()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
