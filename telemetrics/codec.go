package telemetrics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoJSONObject = errors.New("no JSON object found")
	ErrMissingField = errors.New("missing required field")
	ErrBadTimestamp = errors.New("timestamp must be positive")
)

const maxQuotedOutput = 256

// wireMetrics mirrors LinkMetrics with pointer fields so that absent and
// null keys can be told apart from zero values.
type wireMetrics struct {
	LatencyMs        *float64 `json:"latency_ms"`
	JitterMs         *float64 `json:"jitter_ms"`
	SignalStrengthDb *float64 `json:"signal_strength_db"`
	PacketLossRate   *float64 `json:"packet_loss_rate"`
	BandwidthMbps    *float64 `json:"bandwidth_mbps"`
	SnrDb            *float64 `json:"snr_db"`
	Timestamp        *int64   `json:"timestamp"`
}

// ExtractJSON returns the slice of output between the first '{' and the last
// '}' inclusive. Tools may print banner lines before the payload.
func ExtractJSON(output []byte) ([]byte, error) {
	start := bytes.IndexByte(output, '{')
	end := bytes.LastIndexByte(output, '}')
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w in output: %q", ErrNoJSONObject, truncate(output))
	}
	return output[start : end+1], nil
}

// Decode parses a wire-format object. All seven keys are required, unknown
// keys are ignored.
func Decode(data []byte) (LinkMetrics, error) {
	var w wireMetrics
	if err := json.Unmarshal(data, &w); err != nil {
		return LinkMetrics{}, fmt.Errorf("invalid metrics JSON: %w", err)
	}

	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("latency_ms", w.LatencyMs != nil)
	check("jitter_ms", w.JitterMs != nil)
	check("signal_strength_db", w.SignalStrengthDb != nil)
	check("packet_loss_rate", w.PacketLossRate != nil)
	check("bandwidth_mbps", w.BandwidthMbps != nil)
	check("snr_db", w.SnrDb != nil)
	check("timestamp", w.Timestamp != nil)
	if len(missing) > 0 {
		return LinkMetrics{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	return LinkMetrics{
		LatencyMs:        *w.LatencyMs,
		JitterMs:         *w.JitterMs,
		SignalStrengthDb: *w.SignalStrengthDb,
		PacketLossRate:   *w.PacketLossRate,
		BandwidthMbps:    *w.BandwidthMbps,
		SnrDb:            *w.SnrDb,
		Timestamp:        *w.Timestamp,
	}, nil
}

// Validate checks the invariants every record handed to a caller must hold.
func (m LinkMetrics) Validate() error {
	if m.Timestamp <= 0 {
		return fmt.Errorf("%w: got %d", ErrBadTimestamp, m.Timestamp)
	}
	return nil
}

// DecodeEmbedded extracts the JSON object embedded in raw tool output and
// decodes it.
func DecodeEmbedded(output []byte) (LinkMetrics, error) {
	payload, err := ExtractJSON(output)
	if err != nil {
		return LinkMetrics{}, err
	}
	return Decode(payload)
}

// Encode renders m in the wire format.
func (m LinkMetrics) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metrics: %w", err)
	}
	return data, nil
}

func truncate(output []byte) string {
	s := string(output)
	if len(s) > maxQuotedOutput {
		return s[:maxQuotedOutput] + "..."
	}
	return s
}
