package wsmarshaller

import (
	"strconv"
	"strings"

	"github.com/webitel/im-room-client/internal/domain/model"
)

// TelemetryFields renders the snapshot in wire order, substituting sentinels for
// missing capabilities. The result always has model.TelemetryFieldCount entries.
func TelemetryFields(s model.TelemetrySnapshot, charging model.ChargingFormat) [model.TelemetryFieldCount]string {
	battery := model.SentinelUnknown
	isCharging := false
	if b, ok := s.Battery.Get(); ok {
		battery = strconv.Itoa(b.Level)
		isCharging = b.Charging
	}

	return [model.TelemetryFieldCount]string{
		s.UserAgent,
		strconv.Itoa(s.Cores),
		strconv.FormatFloat(s.MemoryGB, 'f', -1, 64),
		s.GPU.Vendor,
		s.GPU.Renderer,
		strings.Join(s.Languages, ","),
		s.NetworkType.OrElse(model.SentinelUnknown),
		battery,
		charging.Format(isCharging),
		s.Timezone,
	}
}

// MarshallTelemetry joins the fields with newlines. No escaping is applied.
func MarshallTelemetry(s model.TelemetrySnapshot, charging model.ChargingFormat) string {
	fields := TelemetryFields(s, charging)
	return strings.Join(fields[:], "\n")
}

// UnmarshallDirectory splits the first server message into room names.
// An empty payload means no rooms exist.
func UnmarshallDirectory(payload string) []string {
	if payload == "" {
		return nil
	}
	return strings.Split(payload, "\n")
}
