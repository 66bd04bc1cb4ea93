package telemetrics

import "fmt"

// LinkMetrics is one snapshot of microwave radio-link quality.
// It is built once per request and passed by value.
type LinkMetrics struct {
	LatencyMs        float64 `json:"latency_ms"`
	JitterMs         float64 `json:"jitter_ms"`
	SignalStrengthDb float64 `json:"signal_strength_db"`
	PacketLossRate   float64 `json:"packet_loss_rate"`
	BandwidthMbps    float64 `json:"bandwidth_mbps"`
	SnrDb            float64 `json:"snr_db"`
	Timestamp        int64   `json:"timestamp"`
}

// GetWireFields returns the JSON keys of a LinkMetrics object in wire order.
func GetWireFields() []string {
	return []string{
		"latency_ms",
		"jitter_ms",
		"signal_strength_db",
		"packet_loss_rate",
		"bandwidth_mbps",
		"snr_db",
		"timestamp"}
}

func (m LinkMetrics) String() string {
	return fmt.Sprintf("LinkMetrics{latency_ms=%.2f jitter_ms=%.2f signal_strength_db=%.2f packet_loss_rate=%.3f bandwidth_mbps=%.2f snr_db=%.2f timestamp=%d}",
		m.LatencyMs, m.JitterMs, m.SignalStrengthDb, m.PacketLossRate, m.BandwidthMbps, m.SnrDb, m.Timestamp)
}
