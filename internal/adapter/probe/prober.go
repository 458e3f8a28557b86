// Package probe answers capability queries about the host the client runs on.
//
// Every query returns an optional value instead of an error: a missing capability is
// an expected state, and the caller substitutes its own sentinel.
package probe

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/spf13/afero"
	"github.com/webitel/im-room-client/internal/domain/model"
)

// Prober is the capability-query interface consumed by the telemetry reporter.
type Prober interface {
	UserAgent(ctx context.Context) model.Optional[string]
	Cores(ctx context.Context) model.Optional[int]
	MemoryGB(ctx context.Context) model.Optional[float64]
	GPU(ctx context.Context) model.Optional[model.GPUInfo]
	Languages(ctx context.Context) model.Optional[[]string]
	NetworkType(ctx context.Context) model.Optional[string]
	// BatteryAvailable is the feature check; Battery is only called when it is true.
	BatteryAvailable(ctx context.Context) bool
	Battery(ctx context.Context) (model.BatteryStatus, error)
	Timezone(ctx context.Context) model.Optional[string]
}

// RTTSource exposes the round trip measured while opening the connection.
type RTTSource interface {
	HandshakeRTT() (time.Duration, bool)
}

var _ Prober = (*Host)(nil)

// Host probes the local machine through sysfs, /etc, environment variables and gopsutil.
type Host struct {
	fs   afero.Fs
	root string
	env  func(string) string
	rtt  RTTSource
	cpus func() int

	totalMemory func(ctx context.Context) (uint64, error)
	platform    func(ctx context.Context) (string, error)
}

func NewHost(opts ...Option) *Host {
	h := &Host{
		fs:          afero.NewOsFs(),
		root:        "/",
		env:         os.Getenv,
		cpus:        numCPU,
		totalMemory: gopsutilMemory,
		platform:    gopsutilPlatform,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) path(parts ...string) string {
	return joinRoot(h.root, parts...)
}

func (h *Host) readString(path string) (string, bool) {
	data, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return "", false
	}
	s := sanitize(string(data))
	return s, s != ""
}

func gopsutilMemory(ctx context.Context) (uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}

func gopsutilPlatform(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(info.Platform + " " + info.PlatformVersion), nil
}

// sanitize collapses every run of whitespace, line breaks included, to a single space
// so a probed value always stays one telemetry field.
func sanitize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
