package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/im-room-client/internal/domain/model"
)

func richProber() *fakeProber {
	return &fakeProber{
		ua:      model.Some("im-room-client/1.0"),
		cores:   model.Some(8),
		memory:  model.Some(4.0),
		gpu:     model.Some(model.GPUInfo{Vendor: "AMD", Renderer: "amdgpu"}),
		langs:   model.Some([]string{"en-US"}),
		network: model.Some("4g"),
		tz:      model.Some("Europe/Kyiv"),
		battery: &model.BatteryStatus{Level: 55, Charging: true},
	}
}

func TestTelemetryService_SnapshotAllCapabilities(t *testing.T) {
	svc := NewTelemetryService(richProber(), discardLogger())

	snap := svc.Snapshot(context.Background())

	assert.Equal(t, "im-room-client/1.0", snap.UserAgent)
	assert.Equal(t, 8, snap.Cores)
	assert.Equal(t, 4.0, snap.MemoryGB)
	assert.Equal(t, "AMD", snap.GPU.Vendor)
	assert.Equal(t, []string{"en-US"}, snap.Languages)
	assert.Equal(t, "4g", snap.NetworkType.OrElse(""))
	assert.Equal(t, "Europe/Kyiv", snap.Timezone)

	b, ok := snap.Battery.Get()
	require.True(t, ok)
	assert.Equal(t, model.BatteryStatus{Level: 55, Charging: true}, b)
}

func TestTelemetryService_SnapshotSentinels(t *testing.T) {
	svc := NewTelemetryService(&fakeProber{}, discardLogger())

	snap := svc.Snapshot(context.Background())

	assert.Equal(t, model.SentinelUnknown, snap.UserAgent)
	assert.Equal(t, model.SentinelMemory, snap.MemoryGB)
	assert.Equal(t, model.GPUInfo{Vendor: model.SentinelUnknown, Renderer: model.SentinelUnknown}, snap.GPU)
	assert.False(t, snap.NetworkType.IsPresent())
	assert.False(t, snap.Battery.IsPresent())
	assert.Equal(t, DefaultTimezone, snap.Timezone)
}

func TestTelemetryService_ReportWithoutBatterySendsOnce(t *testing.T) {
	p := richProber()
	p.battery = nil
	sender := &fakeSender{}

	err := NewTelemetryService(p, discardLogger()).Report(context.Background(), sender)
	require.NoError(t, err)

	require.Len(t, sender.snapshots, 1)
	assert.False(t, sender.snapshots[0].Battery.IsPresent())
	assert.Zero(t, p.batteryCalls)
}

func TestTelemetryService_BatteryErrorDegrades(t *testing.T) {
	p := richProber()
	p.battery = nil
	p.batErr = errors.New("read failed")
	sender := &fakeSender{}

	require.NoError(t, NewTelemetryService(p, discardLogger()).Report(context.Background(), sender))

	require.Len(t, sender.snapshots, 1)
	assert.False(t, sender.snapshots[0].Battery.IsPresent())
	assert.Equal(t, 1, p.batteryCalls)
}

func TestTelemetryService_ReportWaitsForBattery(t *testing.T) {
	p := richProber()
	p.batBlock = make(chan struct{})
	sender := &fakeSender{}
	svc := NewTelemetryService(p, discardLogger())

	done := make(chan error, 1)
	go func() { done <- svc.Report(context.Background(), sender) }()

	select {
	case <-done:
		t.Fatal("report finished before the battery resolved")
	case <-time.After(50 * time.Millisecond):
	}

	close(p.batBlock)
	require.NoError(t, <-done)
	require.Len(t, sender.snapshots, 1)
	assert.True(t, sender.snapshots[0].Battery.IsPresent())
}

func TestTelemetryService_ReportAbortsOnCancel(t *testing.T) {
	p := richProber()
	p.batBlock = make(chan struct{})
	sender := &fakeSender{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewTelemetryService(p, discardLogger()).Report(ctx, sender) }()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Empty(t, sender.snapshots)
}

func TestReporterMiddleware_PassesThrough(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	m := NewReporterMiddleware(NewTelemetryService(&fakeProber{}, discardLogger()), discardLogger())

	assert.EqualError(t, m.Report(context.Background(), sender), "boom")
	assert.Equal(t, DefaultTimezone, m.Snapshot(context.Background()).Timezone)
}
