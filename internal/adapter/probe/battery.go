package probe

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/afero"
	"github.com/webitel/im-room-client/internal/domain/model"
)

var ErrNoBattery = errors.New("no battery present")

func (h *Host) batteryDirs() []string {
	pattern := filepath.Join(h.path("sys", "class", "power_supply"), "*", "type")
	matches, err := afero.Glob(h.fs, pattern)
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	dirs := make([]string, 0, len(matches))
	for _, m := range matches {
		if kind, ok := h.readString(m); ok && kind == "Battery" {
			dirs = append(dirs, filepath.Dir(m))
		}
	}
	return dirs
}

func (h *Host) BatteryAvailable(_ context.Context) bool {
	return len(h.batteryDirs()) > 0
}

// Battery reads the first battery's capacity and status.
// "Full" counts as charging: the device is on external power.
func (h *Host) Battery(ctx context.Context) (model.BatteryStatus, error) {
	if err := ctx.Err(); err != nil {
		return model.BatteryStatus{}, err
	}

	dirs := h.batteryDirs()
	if len(dirs) == 0 {
		return model.BatteryStatus{}, ErrNoBattery
	}
	dir := dirs[0]

	raw, ok := h.readString(filepath.Join(dir, "capacity"))
	if !ok {
		return model.BatteryStatus{}, fmt.Errorf("battery %s: capacity unreadable", filepath.Base(dir))
	}
	level, err := strconv.Atoi(raw)
	if err != nil {
		return model.BatteryStatus{}, fmt.Errorf("battery %s: parse capacity: %w", filepath.Base(dir), err)
	}
	level = min(max(level, 0), 100)

	status, _ := h.readString(filepath.Join(dir, "status"))

	return model.BatteryStatus{
		Level:    level,
		Charging: status == "Charging" || status == "Full",
	}, nil
}
