package logging

import (
	"bytes"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestSetup_InfoLevel_FiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, "info")

	log.Debug("debug msg")
	log.Info("info msg")

	output := buf.String()
	assert.NotContains(t, output, "debug msg")
	assert.Contains(t, output, "info msg")
}

func TestSetup_UTCTimestamps(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "info").Info("hello")

	assert.Regexp(t, regexp.MustCompile(`time=\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`), buf.String())
}

func TestSawmill(t *testing.T) {
	var buf bytes.Buffer
	log := Sawmill(Setup(&buf, "debug"), "deed")
	log.Debug("poll")

	assert.Contains(t, buf.String(), "sawmill=deed")
	assert.Contains(t, buf.String(), "msg=poll")
}
