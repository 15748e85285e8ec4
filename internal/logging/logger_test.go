package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/config"
	"resume-builder/internal/logging/adapters"
)

func newBufferedLogger(t *testing.T, format string) (*MultiLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := NewMultiLogger()
	require.NoError(t, l.AddAdapter(adapters.NewStdoutAdapter("buf", adapters.StdoutConfig{Format: format, Writer: &buf})))
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferedLogger(t, "json")
	l.SetLevel(WarnLevel)

	l.Info("dropped")
	l.Warn("kept", map[string]interface{}{"session_id": "abc"})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["message"])
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "abc", lines[0]["session_id"])
}

func TestDerivedLoggersShareAdaptersAndLevel(t *testing.T) {
	l, buf := newBufferedLogger(t, "json")
	child := l.WithField("component", "exporter")

	l.SetLevel(ErrorLevel)
	child.Info("dropped")
	child.Error("print failed")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "exporter", lines[0]["component"])
}

func TestWithContextAddsRequestID(t *testing.T) {
	l, buf := newBufferedLogger(t, "json")
	ctx := ContextWithRequestID(context.Background(), "req-1")

	l.WithContext(ctx).Info("hello")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-1", lines[0]["request_id"])
}

func TestTextFormatIsSorted(t *testing.T) {
	l, buf := newBufferedLogger(t, "text")
	l.Info("submit", map[string]interface{}{"b": 2, "a": 1})

	assert.Contains(t, buf.String(), "[INFO] submit a=1 b=2")
}

func TestAddAdapterRejectsDuplicates(t *testing.T) {
	l, _ := newBufferedLogger(t, "json")
	err := l.AddAdapter(adapters.NewStdoutAdapter("buf", adapters.StdoutConfig{}))
	assert.Error(t, err)

	assert.NoError(t, l.RemoveAdapter("buf"))
	assert.Error(t, l.RemoveAdapter("buf"))
}

func TestLogrusAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter, err := adapters.NewLogrusAdapter("logrus", adapters.LogrusConfig{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	l := NewMultiLogger()
	l.SetLevel(DebugLevel)
	require.NoError(t, l.AddAdapter(adapter))

	l.Debug("rendered", map[string]interface{}{"template": "modern"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "rendered", lines[0]["msg"])
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "modern", lines[0]["template"])
}

func TestManagerInitializeFallsBackToStdout(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "debug"

	m := NewManager()
	require.NoError(t, m.Initialize(cfg))
	assert.Equal(t, DebugLevel, m.GetLogger().GetLevel())
	assert.NoError(t, m.Close())
}

func TestFactoryRejectsUnknownType(t *testing.T) {
	_, err := NewAdapterFactory().CreateAdapter(AdapterConfig{Name: "x", Type: "betterstack"})
	assert.Error(t, err)
}
