package adapters

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal-web/internal/logging/types"
)

func entry(level types.LogLevel, msg string, fields map[string]interface{}) *types.LogEntry {
	return &types.LogEntry{
		Level:     level,
		Message:   msg,
		Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Fields:    fields,
	}
}

func TestFormatText(t *testing.T) {
	out, err := formatEntry(entry(types.WarnLevel, "slow fetch", map[string]interface{}{"view": "jobs", "ms": 900}), "text", false)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00.000Z [WARN] slow fetch ms=900 view=jobs", out)

	colored, err := formatEntry(entry(types.ErrorLevel, "boom", nil), "text", true)
	require.NoError(t, err)
	assert.Contains(t, colored, ansiRed+"ERROR"+ansiReset)
}

func TestStdoutAdapter(t *testing.T) {
	var buf bytes.Buffer
	a := NewStdoutAdapter("console", StdoutConfig{Format: "json", Writer: &buf})

	require.NoError(t, a.Write(entry(types.InfoLevel, "hello", nil)))
	assert.Equal(t, `{"level":"info","message":"hello","time":"2024-05-01T10:00:00Z"}`+"\n", buf.String())
	assert.Equal(t, "console", a.Name())
	assert.NoError(t, a.Health())
}

func TestFileAdapterRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	a, err := NewFileAdapter("file", FileConfig{FilePath: path, Format: "text", MaxSize: 1, CreateDirs: true})
	require.NoError(t, err)

	require.NoError(t, a.Write(entry(types.InfoLevel, "first", nil)))
	require.NoError(t, a.Write(entry(types.InfoLevel, "second", nil)))
	require.NoError(t, a.Close())

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(current), "second")
	assert.NotContains(t, string(current), "first")

	backups, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.Len(t, backups, 1)
	old, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(old), "first"))

	assert.Error(t, a.Health())
	assert.Error(t, a.Write(entry(types.InfoLevel, "after close", nil)))
}

func TestFileAdapterRequiresPath(t *testing.T) {
	_, err := NewFileAdapter("file", FileConfig{})
	assert.Error(t, err)
}
