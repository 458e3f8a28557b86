package probe

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"strings"

	"github.com/webitel/im-room-client/internal/domain/model"
)

func numCPU() int { return runtime.NumCPU() }

// UserAgent identifies the client build and the host platform.
func (h *Host) UserAgent(ctx context.Context) model.Optional[string] {
	parts := []string{runtime.GOOS, runtime.GOARCH}
	if h.platform != nil {
		if p, err := h.platform(ctx); err == nil && sanitize(p) != "" {
			parts = append(parts, sanitize(p))
		}
	}

	ua := fmt.Sprintf("%s/%s (%s) Go/%s",
		model.ClientName,
		model.ClientVersion,
		strings.Join(parts, "; "),
		strings.TrimPrefix(runtime.Version(), "go"),
	)
	return model.Some(sanitize(ua))
}

func (h *Host) Cores(_ context.Context) model.Optional[int] {
	if h.cpus == nil {
		return model.None[int]()
	}
	n := h.cpus()
	if n <= 0 {
		return model.None[int]()
	}
	return model.Some(n)
}

// MemoryGB reports total memory bucketed the way browsers expose deviceMemory.
func (h *Host) MemoryGB(ctx context.Context) model.Optional[float64] {
	if h.totalMemory == nil {
		return model.None[float64]()
	}
	total, err := h.totalMemory(ctx)
	if err != nil || total == 0 {
		return model.None[float64]()
	}
	return model.Some(BucketMemory(total))
}

const (
	minMemoryBucket = 0.25
	maxMemoryBucket = 8.0
)

// BucketMemory rounds a byte count to the nearest power-of-two gigabytes, clamped to [0.25, 8].
func BucketMemory(totalBytes uint64) float64 {
	gb := float64(totalBytes) / (1 << 30)
	bucket := math.Pow(2, math.Round(math.Log2(gb)))
	return math.Min(math.Max(bucket, minMemoryBucket), maxMemoryBucket)
}
