package wsmarshaller

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webitel/im-room-client/internal/domain/model"
)

func TestMarshallCommand_Lobby(t *testing.T) {
	for _, rev := range []model.Revision{model.Revision1, model.Revision2} {
		op, err := rev.Opcode(model.ActionCreate)
		require.NoError(t, err)

		frame, err := MarshallCommand(rev, model.RoomCommand{Action: model.ActionCreate, Room: "lobby"})
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(op), 'l', 'o', 'b', 'b', 'y'}, frame)
	}
}

func TestMarshallCommand_LengthAndOpcode(t *testing.T) {
	names := []string{"a", "lobby", "кімната", "部屋 1", "🎲🎲", strings.Repeat("x", 4096)}

	for _, name := range names {
		for _, action := range []model.Action{model.ActionCreate, model.ActionJoin} {
			frame, err := MarshallCommand(model.Revision1, model.RoomCommand{Action: action, Room: name})
			require.NoError(t, err)

			op, _ := model.Revision1.Opcode(action)
			assert.Len(t, frame, 1+len([]byte(name)))
			assert.Equal(t, byte(op), frame[0])
			assert.True(t, utf8.Valid(frame[1:]))
			assert.Equal(t, name, string(frame[1:]))
		}
	}
}

func TestMarshallCommand_UnknownRevision(t *testing.T) {
	_, err := MarshallCommand(model.Revision(7), model.RoomCommand{Action: model.ActionJoin, Room: "x"})
	assert.ErrorIs(t, err, model.ErrUnknownRevision)
}

func fullSnapshot() model.TelemetrySnapshot {
	return model.TelemetrySnapshot{
		UserAgent:   "im-room-client/1.0 (linux; amd64) Go/1.25",
		Cores:       8,
		MemoryGB:    0.5,
		GPU:         model.GPUInfo{Vendor: "Intel", Renderer: "i915"},
		Languages:   []string{"uk-UA", "en-US"},
		NetworkType: model.Some("4g"),
		Battery:     model.Some(model.BatteryStatus{Level: 87, Charging: true}),
		Timezone:    "Europe/Kyiv",
	}
}

func TestMarshallTelemetry_FieldOrder(t *testing.T) {
	got := MarshallTelemetry(fullSnapshot(), model.ChargingFlag)

	assert.Equal(t, strings.Join([]string{
		"im-room-client/1.0 (linux; amd64) Go/1.25",
		"8",
		"0.5",
		"Intel",
		"i915",
		"uk-UA,en-US",
		"4g",
		"87",
		"y",
		"Europe/Kyiv",
	}, "\n"), got)
}

func TestMarshallTelemetry_Sentinels(t *testing.T) {
	s := model.TelemetrySnapshot{
		UserAgent: "ua",
		Cores:     1,
		MemoryGB:  model.SentinelMemory,
		GPU:       model.GPUInfo{Vendor: model.SentinelUnknown, Renderer: model.SentinelUnknown},
		Timezone:  "UTC",
	}

	for _, format := range []model.ChargingFormat{model.ChargingFlag, model.ChargingBool} {
		fields := strings.Split(MarshallTelemetry(s, format), "\n")
		require.Len(t, fields, model.TelemetryFieldCount)

		assert.Equal(t, "0", fields[2])
		assert.Equal(t, "", fields[5])
		assert.Equal(t, model.SentinelUnknown, fields[6])
		assert.Equal(t, model.SentinelUnknown, fields[7])
		assert.Equal(t, format.Format(false), fields[8])
	}
}

func TestUnmarshallDirectory(t *testing.T) {
	assert.Nil(t, UnmarshallDirectory(""))
	assert.Equal(t, []string{"a", "b"}, UnmarshallDirectory("a\nb"))
	assert.Equal(t, []string{"solo"}, UnmarshallDirectory("solo"))
}
