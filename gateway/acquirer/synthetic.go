package acquirer

import (
	"math/rand"
	"time"

	"github.com/yaron8/microlink/telemetrics"
)

// Bounds of synthetic link metrics
const (
	MinLatencyMs        = 15.0
	MaxLatencyMs        = 19.0
	MinJitterMs         = 0.1
	MaxJitterMs         = 5.0
	MinSignalStrengthDb = -85.0
	MaxSignalStrengthDb = -45.0
	MinPacketLossRate   = 0.0
	MaxPacketLossRate   = 2.0
	MinBandwidthMbps    = 50.0
	MaxBandwidthMbps    = 1000.0
	MinSnrDb            = -75.0
	MaxSnrDb            = -55.0
)

// Synthesize draws every field independently and uniformly from its bounds.
// No state is kept between calls.
func Synthesize(now time.Time) telemetrics.LinkMetrics {
	return telemetrics.LinkMetrics{
		LatencyMs:        uniform(MinLatencyMs, MaxLatencyMs),
		JitterMs:         uniform(MinJitterMs, MaxJitterMs),
		SignalStrengthDb: uniform(MinSignalStrengthDb, MaxSignalStrengthDb),
		PacketLossRate:   uniform(MinPacketLossRate, MaxPacketLossRate),
		BandwidthMbps:    uniform(MinBandwidthMbps, MaxBandwidthMbps),
		SnrDb:            uniform(MinSnrDb, MaxSnrDb),
		Timestamp:        now.Unix(),
	}
}

func uniform(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}
