package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldMask(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"admin_password", true},
		{"MQTT_PASSWORD", true},
		{"api_token", true},
		{"brightness", false},
		{"alias", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldMask(tt.key))
		})
	}
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "********", MaskValue("abc"))
	assert.Equal(t, "****cret", MaskValue("supersecret"))
}

func TestHandler_RedactsSensitiveKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil))

	logger.Info("settings saved", "admin_password", "hunter22", "brightness", 80)

	out := buf.String()
	assert.NotContains(t, out, "hunter22")
	assert.True(t, strings.Contains(out, "admin_password=****er22"), out)
	assert.Contains(t, out, "brightness=80")
}

func TestHandler_GroupPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, nil)).WithGroup("restore")

	logger.Info("phase complete", "phase", 1)

	assert.Contains(t, buf.String(), "restore.phase=1")
}
