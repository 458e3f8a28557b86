package probe

import (
	"context"
	"time"

	"github.com/webitel/im-room-client/internal/domain/model"
)

// Effective connection types, as exposed by the Network Information API.
const (
	EffectiveSlow2G = "slow-2g"
	Effective2G     = "2g"
	Effective3G     = "3g"
	Effective4G     = "4g"
)

// EffectiveType classifies a round trip with the Network Information API thresholds.
func EffectiveType(rtt time.Duration) string {
	switch {
	case rtt >= 2000*time.Millisecond:
		return EffectiveSlow2G
	case rtt >= 1400*time.Millisecond:
		return Effective2G
	case rtt >= 270*time.Millisecond:
		return Effective3G
	default:
		return Effective4G
	}
}

func (h *Host) NetworkType(_ context.Context) model.Optional[string] {
	if h.rtt == nil {
		return model.None[string]()
	}
	rtt, ok := h.rtt.HandshakeRTT()
	if !ok {
		return model.None[string]()
	}
	return model.Some(EffectiveType(rtt))
}
