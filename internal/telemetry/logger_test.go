package telemetry_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riftlabs/rcf/internal/telemetry"
)

func TestNewNilLoggerIsSilent(t *testing.T) {
	l := telemetry.New(nil)
	assert.NotPanics(t, func() {
		l.Debug("test", "k", "v")
		l.Info("test", "k", "v")
		l.Warn("test", "k", "v")
		l.Error("test", "k", "v")
	})
}

func TestNilReceiverIsSilent(t *testing.T) {
	var l *telemetry.Logger
	assert.NotPanics(t, func() {
		l.Debug("test")
		l.Info("test")
		l.Warn("test")
		l.Error("test")
		assert.Nil(t, l.With("k", "v"))
	})
}

func TestNewWrapsProvidedLoggerAndEmits(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := telemetry.New(base)

	l.Info("forest update", "seqIdx", int64(7))

	out := buf.String()
	assert.True(t, strings.Contains(out, "forest update"))
	assert.True(t, strings.Contains(out, "seqIdx=7"))
}

func TestWithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l := telemetry.New(base).With("component", "tree-0")

	l.Debug("traversal")

	assert.True(t, strings.Contains(buf.String(), "component=tree-0"))
}
