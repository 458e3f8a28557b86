package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/webitel/im-room-client/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSender struct {
	mu        sync.Mutex
	snapshots []model.TelemetrySnapshot
	commands  []model.RoomCommand
	err       error
}

func (f *fakeSender) SendTelemetry(_ context.Context, s model.TelemetrySnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.snapshots = append(f.snapshots, s)
	return nil
}

func (f *fakeSender) SendCommand(_ context.Context, c model.RoomCommand) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.commands = append(f.commands, c)
	return nil
}

type fakeDisplay struct {
	mu    sync.Mutex
	lines []string
}

func (f *fakeDisplay) Print(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, text)
}

func (f *fakeDisplay) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}

// fakeProber answers from fixed values; a nil battery means the capability is absent.
type fakeProber struct {
	ua       model.Optional[string]
	cores    model.Optional[int]
	memory   model.Optional[float64]
	gpu      model.Optional[model.GPUInfo]
	langs    model.Optional[[]string]
	network  model.Optional[string]
	tz       model.Optional[string]
	battery  *model.BatteryStatus
	batErr   error
	batBlock chan struct{}

	mu           sync.Mutex
	batteryCalls int
}

func (f *fakeProber) UserAgent(context.Context) model.Optional[string] { return f.ua }
func (f *fakeProber) Cores(context.Context) model.Optional[int] { return f.cores }
func (f *fakeProber) MemoryGB(context.Context) model.Optional[float64] { return f.memory }
func (f *fakeProber) GPU(context.Context) model.Optional[model.GPUInfo] {
	return f.gpu
}
func (f *fakeProber) Languages(context.Context) model.Optional[[]string] { return f.langs }
func (f *fakeProber) NetworkType(context.Context) model.Optional[string] { return f.network }
func (f *fakeProber) Timezone(context.Context) model.Optional[string] { return f.tz }

func (f *fakeProber) BatteryAvailable(context.Context) bool { return f.battery != nil || f.batErr != nil }

func (f *fakeProber) Battery(ctx context.Context) (model.BatteryStatus, error) {
	f.mu.Lock()
	f.batteryCalls++
	f.mu.Unlock()

	if f.batBlock != nil {
		select {
		case <-f.batBlock:
		case <-ctx.Done():
			return model.BatteryStatus{}, ctx.Err()
		}
	}
	if f.batErr != nil {
		return model.BatteryStatus{}, f.batErr
	}
	return *f.battery, nil
}
