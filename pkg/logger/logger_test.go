package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{FatalLevel, "FATAL"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel(" WARNING "))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	assert.Equal(t, InfoLevel, ParseLevel("nonsense"))
}

func TestLogger_InfoWritesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: InfoLevel, Output: buf, Format: FormatJSON})

	log.Info("favorite added", String("station_uuid", "abc"), Int("count", 2))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "favorite added", entries[0]["msg"])
	assert.Equal(t, "abc", entries[0]["station_uuid"])
	assert.EqualValues(t, 2, entries[0]["count"])
}

func TestLogger_DebugFilteredByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: InfoLevel, Output: buf})

	log.Debug("hidden")
	assert.Zero(t, buf.Len())
}

func TestLogger_SetLevelPropagatesToChildren(t *testing.T) {
	buf := &bytes.Buffer{}
	parent := New(&Config{Level: InfoLevel, Output: buf})
	child := parent.WithFields(String("component", "cache"))

	parent.SetLevel(ErrorLevel)
	assert.Equal(t, ErrorLevel, child.GetLevel())

	child.Warn("suppressed")
	assert.Zero(t, buf.Len())

	child.Error("visible", Error(errors.New("boom")))
	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache", entries[0]["component"])
	assert.Equal(t, "boom", entries[0]["error"])
}

func TestLogger_WithContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(&Config{Level: DebugLevel, Output: buf})

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "u1")
	ctx = WithTraceID(ctx, "trace-9")

	log.WithContext(ctx).Info("hello", Duration("took", 1500*time.Millisecond))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])
	assert.Equal(t, "u1", entries[0]["user_id"])
	assert.Equal(t, "trace-9", entries[0]["trace_id"])
	assert.Equal(t, "1.5s", entries[0]["took"])
}

func TestLogger_WithFieldsDoesNotMutateParent(t *testing.T) {
	buf := &bytes.Buffer{}
	parent := New(&Config{Level: InfoLevel, Output: buf})
	_ = parent.WithFields(String("k", "v"))

	parent.Info("plain")
	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	_, ok := entries[0]["k"]
	assert.False(t, ok)
}

func TestGlobalLogger(t *testing.T) {
	prev := L()
	defer SetGlobalLogger(prev)

	buf := &bytes.Buffer{}
	SetGlobalLogger(New(&Config{Level: InfoLevel, Output: buf}))
	L().Info("global")
	assert.Contains(t, buf.String(), "global")
}
