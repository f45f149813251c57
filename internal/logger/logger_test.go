package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestJSONOutputWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Out: &buf})
	log.WithFields(map[string]any{"stage": "clean", "rows": 3}).
		WithError(errors.New("boom")).
		Infof("done %s", "x")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "done x", entry["message"])
	assert.Equal(t, "clean", entry["stage"])
	assert.Equal(t, float64(3), entry["rows"])
	assert.Equal(t, "boom", entry["error"])
}

func TestLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Out: &buf})
	log.Debug("hidden")
	log.Info("hidden")
	assert.Zero(t, buf.Len())
	log.WithField("k", "v").Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Format: "console", Out: &buf}).Info("hello")
	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.False(t, strings.HasPrefix(out, "{"))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().WithField("a", 1).Warn("ignored") })
}

func TestFormattedLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Out: &buf})
	log.Debugf("loaded %d rows", 12)
	log.Warnf("team %q not found", "Atlantis")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "debug", first["level"])
	assert.Equal(t, "loaded 12 rows", first["message"])
	assert.Equal(t, "warn", second["level"])
	assert.Equal(t, `team "Atlantis" not found`, second["message"])
}
