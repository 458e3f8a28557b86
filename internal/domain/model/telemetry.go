package model

import (
	"errors"
	"fmt"
)

const (
	// TelemetryFieldCount is fixed by the wire format; servers reject any other count.
	TelemetryFieldCount = 10

	// SentinelUnknown replaces any text field whose capability is missing.
	SentinelUnknown = "?"
	// SentinelMemory is reported when device memory cannot be read.
	SentinelMemory = 0.0
)

// TelemetryFieldNames lists the snapshot fields in wire order.
var TelemetryFieldNames = [TelemetryFieldCount]string{
	"User agent",
	"CPU cores",
	"Memory (GB)",
	"GPU vendor",
	"GPU renderer",
	"Languages",
	"Connection",
	"Battery (%)",
	"Charging",
	"Timezone",
}

// GPUInfo is the vendor/renderer pair of the primary graphics device.
type GPUInfo struct {
	Vendor   string
	Renderer string
}

// BatteryStatus is the level (0-100) and charging state of the host battery.
type BatteryStatus struct {
	Level    int
	Charging bool
}

// TelemetrySnapshot is the one-time environment report sent after connection open.
type TelemetrySnapshot struct {
	UserAgent   string
	Cores       int
	MemoryGB    float64
	GPU         GPUInfo
	Languages   []string
	NetworkType Optional[string]
	Battery     Optional[BatteryStatus]
	Timezone    string
}

// ChargingFormat selects the wire representation of the charging flag.
type ChargingFormat string

const (
	// ChargingFlag writes "y" when charging and an empty field otherwise.
	ChargingFlag ChargingFormat = "flag"
	// ChargingBool writes "true" / "false".
	ChargingBool ChargingFormat = "bool"
)

var ErrUnknownChargingFormat = errors.New("unknown charging format")

// Format renders the charging state.
func (f ChargingFormat) Format(charging bool) string {
	switch f {
	case ChargingBool:
		if charging {
			return "true"
		}
		return "false"
	default:
		if charging {
			return "y"
		}
		return ""
	}
}

// Validate rejects formats the encoder does not know.
func (f ChargingFormat) Validate() error {
	switch f {
	case ChargingFlag, ChargingBool:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChargingFormat, string(f))
	}
}
