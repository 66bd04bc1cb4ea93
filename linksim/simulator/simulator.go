package simulator

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/yaron8/microlink/telemetrics"
)

// Params shapes the generated link. Signal strength drives bandwidth and SNR.
type Params struct {
	BaseLatencyMs      float64
	LatencyVariationMs float64
	MinJitterMs        float64
	MaxJitterMs        float64
	MinSignalDb        float64
	MaxSignalDb        float64
	MaxPacketLossRate  float64
	MinBandwidthMbps   float64
	MaxBandwidthMbps   float64
	MinSnrMarginDb     float64
	MaxSnrMarginDb     float64
}

func DefaultParams() Params {
	return Params{
		BaseLatencyMs:      15.0,
		LatencyVariationMs: 2.0,
		MinJitterMs:        0.1,
		MaxJitterMs:        5.0,
		MinSignalDb:        -85.0,
		MaxSignalDb:        -45.0,
		MaxPacketLossRate:  2.0,
		MinBandwidthMbps:   50.0,
		MaxBandwidthMbps:   1000.0,
		MinSnrMarginDb:     10.0,
		MaxSnrMarginDb:     20.0,
	}
}

// minBandwidthFactor keeps a weak link from dropping below 10% of the range
const minBandwidthFactor = 0.1

type Simulator struct {
	mu     sync.Mutex
	rng    *rand.Rand
	seed   int64
	params Params
}

// NewSimulator seeds a generator. A zero seed is replaced by the clock.
func NewSimulator(seed int64, params Params) *Simulator {
	if seed == 0 {
		seed = time.Now().Unix()
	}
	return &Simulator{
		rng:    rand.New(rand.NewSource(seed)),
		seed:   seed,
		params: params,
	}
}

func (s *Simulator) Seed() int64 {
	return s.seed
}

// Generate produces one snapshot, rounded the way it is printed on the wire
func (s *Simulator) Generate(now time.Time) telemetrics.LinkMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.params

	latency := p.BaseLatencyMs + s.between(-p.LatencyVariationMs, p.LatencyVariationMs)
	jitter := s.between(p.MinJitterMs, p.MaxJitterMs)
	signal := s.between(p.MinSignalDb, p.MaxSignalDb)
	loss := s.between(0, p.MaxPacketLossRate)

	factor := (signal - p.MinSignalDb) / (p.MaxSignalDb - p.MinSignalDb)
	factor = math.Max(minBandwidthFactor, math.Min(1.0, factor))
	bandwidth := p.MinBandwidthMbps + (p.MaxBandwidthMbps-p.MinBandwidthMbps)*factor

	snr := signal + s.between(p.MinSnrMarginDb, p.MaxSnrMarginDb)

	return telemetrics.LinkMetrics{
		LatencyMs:        round(latency, 2),
		JitterMs:         round(jitter, 2),
		SignalStrengthDb: round(signal, 2),
		PacketLossRate:   round(loss, 3),
		BandwidthMbps:    round(bandwidth, 2),
		SnrDb:            round(snr, 2),
		Timestamp:        now.Unix(),
	}
}

func (s *Simulator) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// WriteJSON prints m as an indented wire-format object
func WriteJSON(w io.Writer, m telemetrics.LinkMetrics) error {
	_, err := fmt.Fprintf(w, "{\n"+
		"  \"latency_ms\": %.2f,\n"+
		"  \"jitter_ms\": %.2f,\n"+
		"  \"signal_strength_db\": %.2f,\n"+
		"  \"packet_loss_rate\": %.3f,\n"+
		"  \"bandwidth_mbps\": %.2f,\n"+
		"  \"snr_db\": %.2f,\n"+
		"  \"timestamp\": %d\n"+
		"}\n",
		m.LatencyMs, m.JitterMs, m.SignalStrengthDb, m.PacketLossRate, m.BandwidthMbps, m.SnrDb, m.Timestamp)
	return err
}

// WriteReport prints m for a human watching the console
func WriteReport(w io.Writer, m telemetrics.LinkMetrics) error {
	_, err := fmt.Fprintf(w, "=== Microwave Link Metrics ===\n"+
		"Latency: %.2f ms\n"+
		"Jitter: %.2f ms\n"+
		"Signal Strength: %.2f dBm\n"+
		"Packet Loss Rate: %.3f%%\n"+
		"Bandwidth: %.2f Mbps\n"+
		"SNR: %.2f dB\n"+
		"Timestamp: %d\n"+
		"=============================\n",
		m.LatencyMs, m.JitterMs, m.SignalStrengthDb, m.PacketLossRate, m.BandwidthMbps, m.SnrDb, m.Timestamp)
	return err
}
