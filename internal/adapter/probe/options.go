package probe

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
)

// Option defines a functional configuration type for the Host prober.
type Option func(*Host)

// WithFs replaces the filesystem used for sysfs and /etc reads.
func WithFs(fs afero.Fs) Option {
	return func(h *Host) { h.fs = fs }
}

// WithRoot prefixes every absolute path read by the prober.
func WithRoot(root string) Option {
	return func(h *Host) {
		if root != "" {
			h.root = root
		}
	}
}

// WithEnv replaces the environment lookup.
func WithEnv(env func(string) string) Option {
	return func(h *Host) { h.env = env }
}

// WithRTTSource supplies the handshake measurement used for the network type.
func WithRTTSource(src RTTSource) Option {
	return func(h *Host) { h.rtt = src }
}

// WithCPUCount replaces the logical CPU counter.
func WithCPUCount(fn func() int) Option {
	return func(h *Host) { h.cpus = fn }
}

// WithMemory replaces the total-memory query (bytes).
func WithMemory(fn func(ctx context.Context) (uint64, error)) Option {
	return func(h *Host) { h.totalMemory = fn }
}

// WithPlatform replaces the OS platform query used in the user agent.
func WithPlatform(fn func(ctx context.Context) (string, error)) Option {
	return func(h *Host) { h.platform = fn }
}

func joinRoot(root string, parts ...string) string {
	return filepath.Join(append([]string{root}, parts...)...)
}
