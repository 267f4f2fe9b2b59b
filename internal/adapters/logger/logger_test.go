package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kern/internal/adapters/logger"
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestLogger_Pretty(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	l.Info("loaded model")
	l.Warn("no faces")
	assert.Equal(t, "loaded model\n! no faces\n", buf.String())
}

func TestLogger_ErrorChain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	err := zerr.Wrap(zerr.With(domain.ErrEntityNotFound, "key", "v_vertex_0_-1"), "move failed")
	l.Error(err)

	want := "✗ Error: move failed\n\n  Caused by:\n    → entity not found\n      key: v_vertex_0_-1\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_NilErrorIgnored(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	l.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)
	l.SetJSON(true)

	l.Info("loaded model")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "loaded model", rec["msg"])
}

func TestLogger_Configure(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	l := logger.New()
	l.SetOutput(buf)

	settings := domain.DefaultSettings()
	settings.LogLevel = domain.LogLevelWarn
	l.Configure(settings)

	l.Info("hidden")
	l.Warn("shown")
	assert.Equal(t, "! shown\n", buf.String())
}
