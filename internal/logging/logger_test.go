package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal-web/internal/config"
	"jobportal-web/internal/logging/adapters"
)

func newBufferedLogger(t *testing.T, format string) (*MultiLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := NewMultiLogger()
	require.NoError(t, l.AddAdapter(adapters.NewStdoutAdapter("buffer", adapters.StdoutConfig{
		Format: format,
		Writer: &buf,
	})))
	return l, &buf
}

func TestMultiLogger(t *testing.T) {
	t.Run("json entries carry merged fields", func(t *testing.T) {
		l, buf := newBufferedLogger(t, "json")

		l.WithField("request_id", "req-1").Info("Request completed", map[string]interface{}{"status": 200})

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "Request completed", entry["message"])
		assert.Equal(t, "req-1", entry["request_id"])
		assert.Equal(t, float64(200), entry["status"])
	})

	t.Run("level filters entries for derived loggers too", func(t *testing.T) {
		l, buf := newBufferedLogger(t, "text")
		child := l.WithFields(map[string]interface{}{"component": "views"})

		l.SetLevel(WarnLevel)
		child.Info("dropped")
		child.Warn("kept")

		out := buf.String()
		assert.NotContains(t, out, "dropped")
		assert.Contains(t, out, "[WARN] kept component=views")
		assert.Equal(t, WarnLevel, child.GetLevel())
	})

	t.Run("derived loggers do not leak fields into the parent", func(t *testing.T) {
		l, buf := newBufferedLogger(t, "text")
		_ = l.WithField("user_id", 7)

		l.Info("plain")
		assert.NotContains(t, buf.String(), "user_id")
	})

	t.Run("adapter names are unique", func(t *testing.T) {
		l, _ := newBufferedLogger(t, "json")
		err := l.AddAdapter(adapters.NewStdoutAdapter("buffer", adapters.StdoutConfig{}))
		assert.Error(t, err)

		assert.NoError(t, l.RemoveAdapter("buffer"))
		assert.Error(t, l.RemoveAdapter("buffer"))
	})

	t.Run("nop logger writes nothing", func(t *testing.T) {
		l := NewNopLogger()
		l.Error("ignored")
		assert.NoError(t, l.Close())
	})
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"fatal":   FatalLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestManagerInitialize(t *testing.T) {
	t.Run("builds configured adapters", func(t *testing.T) {
		dir := t.TempDir()
		cfg := config.Default()
		cfg.Logging.Level = "debug"
		cfg.Logging.Adapters = []config.LogAdapterConfig{
			{Name: "file", Type: "file", Enabled: true, Options: map[string]interface{}{
				"file_path": dir + "/logs/app.log",
				"format":    "text",
			}},
			{Name: "disabled", Type: "unknown", Enabled: false},
		}

		m := NewManager()
		require.NoError(t, m.Initialize(cfg))
		m.GetLogger().Debug("hello", map[string]interface{}{"k": "v"})
		require.NoError(t, m.Close())

		data, err := os.ReadFile(dir + "/logs/app.log")
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(data), "[DEBUG] hello k=v"), string(data))
	})

	t.Run("unknown adapter type fails", func(t *testing.T) {
		cfg := config.Default()
		cfg.Logging.Adapters = []config.LogAdapterConfig{{Name: "x", Type: "betterstack", Enabled: true}}
		assert.Error(t, NewManager().Initialize(cfg))
	})
}
