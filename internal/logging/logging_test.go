package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(msg string, args ...any) slog.Record {
	r := slog.NewRecord(time.Now(), slog.LevelInfo, msg, 0)
	r.Add(args...)
	return r
}

// decodeLines parses JSON-lines log output.
func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	return out
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"logfmt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "logfmt")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_TextMasksCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	logger.Info("settings patched", "mqtt_password", "broker-pass", "hostname", "attic")

	out := buf.String()
	assert.NotContains(t, out, "broker-pass")
	assert.Contains(t, out, "mqtt_password=****pass")
	assert.Contains(t, out, "hostname=attic")
}

func TestNew_JSONMasksCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.With("admin_password", "hunter22").Info("restore accepted", "aliases", 3)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "****er22", lines[0]["admin_password"])
	assert.EqualValues(t, 3, lines[0]["aliases"])
	assert.Equal(t, "INFO", lines[0]["level"])
}

func TestNew_JSONTraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelTrace, Format: FormatJSON, Output: &buf})

	logger.Log(t.Context(), LevelTrace, "alias record", "offset", 12)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "TRACE", lines[0]["level"])
}

func TestNew_LogFileMirror(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &stderr, File: &file})

	_, ok := logger.Handler().(*MultiHandler)
	require.True(t, ok)

	logger.Debug("hidden from both")
	logger.WithGroup("restore").Warn("settings rejected", "phase", 2, "admin_password", "hunter22")

	assert.Contains(t, stderr.String(), "restore.phase=2")
	assert.NotContains(t, stderr.String(), "hidden from both")

	lines := decodeLines(t, &file)
	require.Len(t, lines, 1, "file mirror is JSON and honors the level")
	assert.Equal(t, "settings rejected", lines[0]["msg"])
	group, ok := lines[0]["restore"].(map[string]any)
	require.True(t, ok, "group is nested in JSON")
	assert.EqualValues(t, 2, group["phase"])
	assert.Equal(t, "****er22", group["admin_password"])
}

func TestNew_NoFileMeansSingleHandler(t *testing.T) {
	logger := New(Config{Format: FormatJSON, Output: &bytes.Buffer{}})
	_, ok := logger.Handler().(*MultiHandler)
	assert.False(t, ok)
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	logger.Error("dropped", "admin_password", "x")
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
	assert.False(t, logger.Enabled(t.Context(), LevelTrace))
	logger.Debug("visible with -v", "store", t.TempDir())
}

func TestTestWriter_TrimsNewline(t *testing.T) {
	n, err := testWriter{t}.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
