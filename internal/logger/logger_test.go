package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name       string
		debug      bool
		envValue   string
		expectDbug bool
	}{
		{name: "debug disabled", debug: false, expectDbug: false},
		{name: "debug option", debug: true, expectDbug: true},
		{name: "debug env", envValue: "1", expectDbug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(DebugEnv, tt.envValue)

			var buf bytes.Buffer
			l, closeFn, err := New(Options{Writer: &buf, Debug: tt.debug})
			require.NoError(t, err)

			l.Debug("debug %s", "arg")
			l.Info("info %d", 42)
			require.NoError(t, closeFn())

			entries := decodeLines(t, &buf)
			if tt.expectDbug {
				require.Len(t, entries, 2)
				assert.Equal(t, "debug", entries[0]["level"])
				assert.Equal(t, "debug arg", entries[0]["msg"])
			} else {
				require.Len(t, entries, 1)
				assert.Equal(t, "info 42", entries[0]["msg"])
			}
		})
	}
}

func TestNew_WarnAndErrorLevels(t *testing.T) {
	var buf bytes.Buffer
	l, closeFn, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	l.Warn("warning message")
	l.Error("error message")
	require.NoError(t, closeFn())

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestNew_FilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "statgrid.log")

	l, closeFn, err := New(Options{Path: path})
	require.NoError(t, err)
	l.Info("written to %s", "file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	l, closeFn, err := New(Options{Writer: &buf})
	require.NoError(t, err)

	Named(l, "widget").Info("hello")
	require.NoError(t, closeFn())

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "widget", entries[0]["logger"])

	// Non-zap loggers pass through untouched.
	b := NewBufferLogger()
	assert.Same(t, b, Named(b, "widget"))
}

func TestNoopLogger(t *testing.T) {
	l := Noop()
	assert.NotPanics(t, func() {
		l.Debug("debug")
		l.Info("info")
		l.Warn("warn")
		l.Error("error")
	})
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, l.Messages[3])

	assert.True(t, l.HasLevel("warn"))
	l.Clear()
	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("warn"))
}

func TestDefault(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)
	assert.Equal(t, buf, Default())
}
