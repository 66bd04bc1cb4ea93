package bootstrap

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaron8/microlink/gateway/config"
	"github.com/yaron8/microlink/gateway/publisher"
	"github.com/yaron8/microlink/logi"
)

func testConfig(t *testing.T, port int) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Port = port
	cfg.Simulator.Mode = config.ModeProcess
	cfg.Simulator.Command = "/nonexistent/link_sim"
	cfg.Redis.Host = ""
	require.NoError(t, cfg.Validate())
	return cfg
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestNew_PublisherSelection(t *testing.T) {
	cfg := testConfig(t, 8080)

	b, err := New(cfg, logi.Discard())
	require.NoError(t, err)
	assert.IsType(t, publisher.Nop{}, b.publisher)

	cfg.Redis.Host = "127.0.0.1"
	b, err = New(cfg, logi.Discard())
	require.NoError(t, err)
	assert.IsType(t, &publisher.RedisPublisher{}, b.publisher)
	assert.NoError(t, b.publisher.Close())
}

func TestNew_RejectsUnknownMode(t *testing.T) {
	cfg := testConfig(t, 8080)
	cfg.Simulator.Mode = "grpc"

	_, err := New(cfg, logi.Discard())
	assert.Error(t, err)
}

func TestStart_ServesUntilCancelled(t *testing.T) {
	port := freePort(t)
	b, err := New(testConfig(t, port), logi.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Start(ctx) }()

	// The gateway falls back to synthetic metrics since the simulator is missing
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestStart_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	b, err := New(testConfig(t, ln.Addr().(*net.TCPAddr).Port), logi.Discard())
	require.NoError(t, err)

	err = b.Start(context.Background())
	assert.ErrorContains(t, err, "failed to start server")
}
