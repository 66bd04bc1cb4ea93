package logi

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLog_WritesJSONFileOnce(t *testing.T) {
	dir := t.TempDir()

	first, err := NewLog(&Config{LogDir: dir, LogFileName: "test.log", Level: slog.LevelDebug})
	require.NoError(t, err)
	require.NotNil(t, first)

	// Second call must return the same instance and ignore the new config
	second, err := NewLog(&Config{LogDir: filepath.Join(dir, "other")})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, GetLogger())

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"logger initialized"`)

	_, err = os.Stat(filepath.Join(dir, "other"))
	assert.True(t, os.IsNotExist(err), "second config should not be applied")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}

	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, "level %q", in)
		assert.Equal(t, want, got, "level %q", in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	require.NotNil(t, l)
	l.Error("dropped", "key", "value")
}
