package acquirer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaron8/microlink/gateway/config"
)

func TestFetch_DecodesSourceOutput(t *testing.T) {
	source := &fakeSource{raw: []byte("INIT banner line\n" + validPayload + "\ntrailing\n")}

	m := newTestAcquirer(source).Fetch(context.Background())

	assert.Equal(t, expectedMetrics, m)
	assert.Equal(t, 1, source.calls)
}

func TestFetch_FallsBackOnFailure(t *testing.T) {
	cases := map[string]*fakeSource{
		"transport error":  {err: errors.New("connection refused")},
		"non-zero exit":    {err: ErrNonZeroExit},
		"no brace pair":    {raw: []byte("Link simulator initialized\nsegfault\n")},
		"missing field":    {raw: []byte(`{"latency_ms":16.5,"timestamp":1754258000}`)},
		"null field":       {raw: []byte(`{"latency_ms":16.5,"jitter_ms":2.25,"signal_strength_db":-62.4,"packet_loss_rate":0.1,"bandwidth_mbps":640.5,"snr_db":null,"timestamp":1754258000}`)},
		"zero timestamp":   {raw: []byte(`{"latency_ms":16.5,"jitter_ms":2.25,"signal_strength_db":-62.4,"packet_loss_rate":0.1,"bandwidth_mbps":640.5,"snr_db":-48.1,"timestamp":0}`)},
		"malformed object": {raw: []byte(`{"latency_ms":16.5,}`)},
	}

	for name, source := range cases {
		t.Run(name, func(t *testing.T) {
			m := newTestAcquirer(source).Fetch(context.Background())

			assertSynthetic(t, m)
			assert.Equal(t, fixedNow.Unix(), m.Timestamp)
			assert.Equal(t, 1, source.calls, "exactly one acquisition attempt per fetch")
		})
	}
}

// tests that a cancelled caller does not abort an attempt, while the
// configured timeout still bounds it
func TestFetch_DetachedFromCallerCancellation(t *testing.T) {
	source := &fakeSource{raw: []byte(validPayload)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := newTestAcquirer(source).Fetch(ctx)

	assert.Equal(t, expectedMetrics, m)
	assert.NoError(t, source.fetchCtxErr)
	assert.True(t, source.fetchHasDead)
}

func TestIsAvailable(t *testing.T) {
	a := newTestAcquirer(&fakeSource{})
	assert.True(t, a.IsAvailable(context.Background()))

	a = newTestAcquirer(&fakeSource{probeErr: errors.New("not found")})
	assert.False(t, a.IsAvailable(context.Background()))
}

// tests that the probe result does not influence fetch
func TestIsAvailable_IndependentOfFetch(t *testing.T) {
	source := &fakeSource{raw: []byte(validPayload), probeErr: errors.New("probe failed")}
	a := newTestAcquirer(source)

	assert.False(t, a.IsAvailable(context.Background()))
	assert.Equal(t, expectedMetrics, a.Fetch(context.Background()))

	source = &fakeSource{err: errors.New("fetch failed")}
	a = newTestAcquirer(source)

	assert.True(t, a.IsAvailable(context.Background()))
	assertSynthetic(t, a.Fetch(context.Background()))
}

func TestFetch_ProcessModeEndToEnd(t *testing.T) {
	script := writeScript(t, `echo "Link simulator initialized with seed: 7"
echo '`+validPayload+`'`)
	a := newTestAcquirer(NewProcessSource(script))

	assert.Equal(t, expectedMetrics, a.Fetch(context.Background()))
	assert.True(t, a.IsAvailable(context.Background()))
}

func TestFetch_ProcessModeNonZeroExit(t *testing.T) {
	script := writeScript(t, `echo '`+validPayload+`'
exit 2`)
	a := newTestAcquirer(NewProcessSource(script))

	m := a.Fetch(context.Background())
	assertSynthetic(t, m)
	assert.Equal(t, fixedNow.Unix(), m.Timestamp)
	assert.False(t, a.IsAvailable(context.Background()))
}

func TestFetch_ProcessModeMissingCommand(t *testing.T) {
	a := newTestAcquirer(NewProcessSource("/nonexistent/link_sim"))

	assertSynthetic(t, a.Fetch(context.Background()))
	assert.False(t, a.IsAvailable(context.Background()))
}

func TestFetch_HTTPModeEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(validPayload))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := newTestAcquirer(NewHTTPSource(srv.URL, time.Second))

	assert.Equal(t, config.ModeHTTP, a.Mode())
	assert.Equal(t, expectedMetrics, a.Fetch(context.Background()))
	assert.True(t, a.IsAvailable(context.Background()))
}

func TestFetch_HTTPModeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := newTestAcquirer(NewHTTPSource(srv.URL, time.Second))

	m := a.Fetch(context.Background())
	assertSynthetic(t, m)
	assert.Equal(t, fixedNow.Unix(), m.Timestamp)
	assert.False(t, a.IsAvailable(context.Background()))
}

func TestNewSource(t *testing.T) {
	source, err := NewSource(config.SimulatorConfig{Mode: config.ModeProcess, Command: "/bin/true", TimeoutMs: 100})
	require.NoError(t, err)
	assert.IsType(t, &ProcessSource{}, source)

	source, err = NewSource(config.SimulatorConfig{Mode: config.ModeHTTP, URL: "http://localhost:8082/", TimeoutMs: 100})
	require.NoError(t, err)
	require.IsType(t, &HTTPSource{}, source)
	assert.Equal(t, "http://localhost:8082", source.(*HTTPSource).baseURL)
	assert.Equal(t, 100*time.Millisecond, source.(*HTTPSource).client.Timeout)

	_, err = NewSource(config.SimulatorConfig{Mode: "grpc"})
	assert.ErrorIs(t, err, ErrUnsupportedSource)
}
