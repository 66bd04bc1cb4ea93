package acquirer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaron8/microlink/gateway/config"
	"github.com/yaron8/microlink/telemetrics"
)

const validPayload = `{"latency_ms":16.5,"jitter_ms":2.25,"signal_strength_db":-62.4,"packet_loss_rate":0.125,"bandwidth_mbps":640.5,"snr_db":-48.1,"timestamp":1754258000}`

var expectedMetrics = telemetrics.LinkMetrics{
	LatencyMs:        16.5,
	JitterMs:         2.25,
	SignalStrengthDb: -62.4,
	PacketLossRate:   0.125,
	BandwidthMbps:    640.5,
	SnrDb:            -48.1,
	Timestamp:        1754258000,
}

var fixedNow = time.Unix(1760000000, 0)

// writeScript writes an executable shell script and returns its path
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "link_sim.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

// fakeSource returns canned output and records the contexts it was given
type fakeSource struct {
	raw      []byte
	err      error
	probeErr error

	fetchCtxErr  error
	fetchHasDead bool
	calls        int
}

func (f *fakeSource) Mode() config.Mode {
	return config.ModeProcess
}

func (f *fakeSource) FetchRaw(ctx context.Context) ([]byte, error) {
	f.calls++
	f.fetchCtxErr = ctx.Err()
	_, f.fetchHasDead = ctx.Deadline()
	return f.raw, f.err
}

func (f *fakeSource) Probe(ctx context.Context) error {
	return f.probeErr
}

func newTestAcquirer(source Source) *Acquirer {
	a := NewAcquirer(source, time.Second, nil)
	a.now = func() time.Time { return fixedNow }
	return a
}

func assertSynthetic(t *testing.T, m telemetrics.LinkMetrics) {
	t.Helper()
	assert.GreaterOrEqual(t, m.LatencyMs, MinLatencyMs)
	assert.LessOrEqual(t, m.LatencyMs, MaxLatencyMs)
	assert.GreaterOrEqual(t, m.JitterMs, MinJitterMs)
	assert.LessOrEqual(t, m.JitterMs, MaxJitterMs)
	assert.GreaterOrEqual(t, m.SignalStrengthDb, MinSignalStrengthDb)
	assert.LessOrEqual(t, m.SignalStrengthDb, MaxSignalStrengthDb)
	assert.GreaterOrEqual(t, m.PacketLossRate, MinPacketLossRate)
	assert.LessOrEqual(t, m.PacketLossRate, MaxPacketLossRate)
	assert.GreaterOrEqual(t, m.BandwidthMbps, MinBandwidthMbps)
	assert.LessOrEqual(t, m.BandwidthMbps, MaxBandwidthMbps)
	assert.GreaterOrEqual(t, m.SnrDb, MinSnrDb)
	assert.LessOrEqual(t, m.SnrDb, MaxSnrDb)
	assert.Greater(t, m.Timestamp, int64(0))
}
