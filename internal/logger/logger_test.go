package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want charmlog.Level
	}{
		{"debug", charmlog.DebugLevel},
		{"INFO", charmlog.InfoLevel},
		{" warn ", charmlog.WarnLevel},
		{"error", charmlog.ErrorLevel},
		{"verbose", charmlog.InfoLevel},
		{"", charmlog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf})

	l.Debug("hidden debug")
	l.Info("hidden info")
	l.Warn("anchor missing", "anchor", "enum-body")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "anchor missing")
	assert.Contains(t, out, "enum-body")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, JSON: true, Output: &buf}).With("template", "state")

	l.Debug("step applied", "anchor", "process-dispatch", "offset", 42)

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "step applied", entry["msg"])
	assert.Equal(t, "state", entry["template"])
	assert.Equal(t, "process-dispatch", entry["anchor"])
}

func TestInitAndDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() {
		mu.Lock()
		defaultLogger = original
		mu.Unlock()
	})

	var buf bytes.Buffer
	Init(Config{Level: LevelInfo, Output: &buf})
	Default().Info("hello")

	assert.Contains(t, buf.String(), "hello")
}
