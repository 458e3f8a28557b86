package control

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_StartServesOnBoundAddr(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s := NewServer("127.0.0.1:0", h, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.True(t, s.Enabled())
	assert.Equal(t, "127.0.0.1:0", s.Addr())

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	assert.NotEqual(t, "127.0.0.1:0", s.Addr())

	resp, err := http.Get("http://" + s.Addr() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestServer_DisabledWithoutAddr(t *testing.T) {
	s := NewServer("", http.NotFoundHandler(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Stop(context.Background()))
}
