package control

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/im-room-client/internal/domain/model"
	"github.com/webitel/im-room-client/internal/domain/output"
	"github.com/webitel/im-room-client/internal/domain/registry"
	"github.com/webitel/im-room-client/internal/handler/ws"
	"github.com/webitel/im-room-client/internal/service"
)

type fakeCommander struct {
	calls []model.RoomCommand
	err   error
}

func (f *fakeCommander) Create(_ context.Context, room string) error {
	f.calls = append(f.calls, model.RoomCommand{Action: model.ActionCreate, Room: room})
	return f.err
}

func (f *fakeCommander) Join(_ context.Context, room string) error {
	f.calls = append(f.calls, model.RoomCommand{Action: model.ActionJoin, Room: room})
	return f.err
}

type fixedReporter struct{}

func (fixedReporter) Snapshot(context.Context) model.TelemetrySnapshot {
	return model.TelemetrySnapshot{UserAgent: "ua", Cores: 4, Timezone: "UTC"}
}

func (fixedReporter) Report(context.Context, service.Sender) error { return nil }

type fixedState model.SessionState

func (s fixedState) State() model.SessionState { return model.SessionState(s) }

type fixture struct {
	srv   *httptest.Server
	cmd   *fakeCommander
	lines *output.Log
	dir   *registry.Directory
}

func newFixture(t *testing.T, state model.SessionState) *fixture {
	t.Helper()
	f := &fixture{
		cmd:   &fakeCommander{},
		lines: output.NewLog(10),
		dir:   registry.NewDirectory(),
	}
	h := NewControlHandler(f.cmd, fixedReporter{}, f.lines, f.dir, fixedState(state),
		model.ChargingFlag, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.srv = httptest.NewServer(h.Routes())
	t.Cleanup(f.srv.Close)
	return f
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestControl_CreateForm(t *testing.T) {
	f := newFixture(t, model.SessionOpen)

	resp, err := http.PostForm(f.srv.URL+"/rooms/create", url.Values{"name": {"lobby"}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body sendResponse
	decode(t, resp, &body)
	assert.True(t, body.Sent)
	assert.Equal(t, []model.RoomCommand{{Action: model.ActionCreate, Room: "lobby"}}, f.cmd.calls)
}

func TestControl_JoinJSON(t *testing.T) {
	f := newFixture(t, model.SessionOpen)

	resp, err := http.Post(f.srv.URL+"/rooms/join", "application/json", strings.NewReader(`{"name":"кімната"}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, []model.RoomCommand{{Action: model.ActionJoin, Room: "кімната"}}, f.cmd.calls)
}

func TestControl_EmptyNameIsNoop(t *testing.T) {
	f := newFixture(t, model.SessionOpen)

	resp, err := http.PostForm(f.srv.URL+"/rooms/create", url.Values{})
	require.NoError(t, err)

	var body sendResponse
	decode(t, resp, &body)
	assert.False(t, body.Sent)
	assert.Empty(t, f.cmd.calls)
}

func TestControl_SendErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("create: %w", ws.ErrSessionClosed), http.StatusConflict},
		{fmt.Errorf("write: broken pipe"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		f := newFixture(t, model.SessionOpen)
		f.cmd.err = tt.err

		resp, err := http.PostForm(f.srv.URL+"/rooms/join", url.Values{"name": {"x"}})
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, tt.want, resp.StatusCode, tt.err.Error())
	}
}

func TestControl_BadJSON(t *testing.T) {
	f := newFixture(t, model.SessionOpen)

	resp, err := http.Post(f.srv.URL+"/rooms/create", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestControl_RoomsAndLog(t *testing.T) {
	f := newFixture(t, model.SessionOpen)
	f.dir.Replace([]string{"a", "b"})
	f.lines.Print("Rooms:")
	f.lines.Print("- a")
	f.lines.Print("- b")

	resp, err := http.Get(f.srv.URL + "/rooms")
	require.NoError(t, err)
	var rooms struct {
		Rooms []string `json:"rooms"`
	}
	decode(t, resp, &rooms)
	assert.Equal(t, []string{"a", "b"}, rooms.Rooms)

	resp, err = http.Get(f.srv.URL + "/log?since=1")
	require.NoError(t, err)
	var log struct {
		Lines []lineResponse `json:"lines"`
	}
	decode(t, resp, &log)
	require.Len(t, log.Lines, 2)
	assert.Equal(t, "- a", log.Lines[0].Text)

	resp, err = http.Get(f.srv.URL + "/log?since=x")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestControl_Telemetry(t *testing.T) {
	f := newFixture(t, model.SessionOpen)

	resp, err := http.Get(f.srv.URL + "/telemetry")
	require.NoError(t, err)
	var body struct {
		Fields []fieldResponse `json:"fields"`
	}
	decode(t, resp, &body)

	require.Len(t, body.Fields, model.TelemetryFieldCount)
	assert.Equal(t, "ua", body.Fields[0].Value)
	assert.Equal(t, "?", body.Fields[6].Value)
	assert.Equal(t, "UTC", body.Fields[9].Value)
}

func TestControl_Health(t *testing.T) {
	resp, err := http.Get(newFixture(t, model.SessionOpen).srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(newFixture(t, model.SessionClosed).srv.URL + "/healthz")
	require.NoError(t, err)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "closed", body["session"])
}
