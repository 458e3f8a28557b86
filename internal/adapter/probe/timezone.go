package probe

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/webitel/im-room-client/internal/domain/model"
)

const zoneinfoMarker = "zoneinfo/"

// Timezone resolves the IANA zone name: TZ, /etc/timezone, the /etc/localtime link
// target, then the Go runtime's local zone when it has a real name.
func (h *Host) Timezone(_ context.Context) model.Optional[string] {
	if tz, ok := zoneFromValue(h.env("TZ")); ok {
		return model.Some(tz)
	}

	if tz, ok := h.readString(h.path("etc", "timezone")); ok {
		if tz, ok := zoneFromValue(tz); ok {
			return model.Some(tz)
		}
	}

	if lr, ok := h.fs.(afero.LinkReader); ok {
		if target, err := lr.ReadlinkIfPossible(h.path("etc", "localtime")); err == nil {
			if tz, ok := zoneFromValue(target); ok {
				return model.Some(tz)
			}
		}
	}

	if name := time.Local.String(); name != "" && name != "Local" {
		return model.Some(name)
	}
	return model.None[string]()
}

// zoneFromValue accepts "Europe/Kyiv", ":Europe/Kyiv" or a path into a zoneinfo tree.
func zoneFromValue(v string) (string, bool) {
	v = strings.TrimPrefix(sanitize(v), ":")
	if i := strings.LastIndex(v, zoneinfoMarker); i >= 0 {
		v = v[i+len(zoneinfoMarker):]
	}
	if v == "" || strings.HasPrefix(v, "/") || strings.Contains(v, " ") {
		return "", false
	}
	return v, true
}
