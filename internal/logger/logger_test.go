package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"INFO", logrus.InfoLevel},
		{" error ", logrus.ErrorLevel},
		{"warn", logrus.WarnLevel},
		{"", logrus.WarnLevel},
		{"verbose", logrus.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "warn")

	l.Info("hidden")
	assert.Empty(t, buf.String(), "info should be filtered at warn level")

	l.WithField("url", "https://example.com").Warn("skipped row")
	out := buf.String()
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "msg=skipped row")
	assert.Contains(t, out, "url=https://example.com")
}

func TestGetReturnsSharedLogger(t *testing.T) {
	a := Get()
	b := Get()
	assert.Same(t, a, b)

	var buf bytes.Buffer
	SetOutput(&buf)
	WithField("k", "v").Error("boom")
	assert.Contains(t, buf.String(), "boom")
}
