package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/kern/internal/adapters/logger"
)

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{name: "info level", level: slog.LevelInfo, msg: "information message", goldenName: "handler_info"},
		{name: "warn level", level: slog.LevelWarn, msg: "warning message", goldenName: "handler_warn"},
		{name: "error level", level: slog.LevelError, msg: "error message", goldenName: "handler_error"},
		{name: "debug level filtered", level: slog.LevelDebug, msg: "debug message", goldenName: "handler_debug_filtered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, nil).WithAttrs([]slog.Attr{slog.Int("nodes", 3)})
	slog.New(handler).Info("pass finished", "computed", 2)

	g := goldie.New(t)
	g.Assert(t, "handler_attrs_multi", buf.Bytes())
}

func TestPrettyHandler_WithGroup_Nested(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	var handler slog.Handler = logger.NewPrettyHandler(buf, nil)
	handler = handler.WithGroup("scheduler").WithGroup("recompute")
	slog.New(handler).Info("pass finished", "nodes", 3)

	g := goldie.New(t)
	g.Assert(t, "handler_group_nested", buf.Bytes())
}

func TestPrettyHandler_WithGroup_EmptyName(t *testing.T) {
	handler := logger.NewPrettyHandler(&bytes.Buffer{}, nil)
	assert.Same(t, handler, handler.WithGroup(""))
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler := logger.NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	assert.False(t, handler.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelWarn))
	assert.True(t, handler.Enabled(t.Context(), slog.LevelError))
}

func TestPrettyHandler_AttrsBeforeGroup(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	var handler slog.Handler = logger.NewPrettyHandler(buf, nil)
	handler = handler.WithAttrs([]slog.Attr{slog.String("root", "/work")}).WithGroup("cache")
	slog.New(handler).Info("sweep", "evicted", 2)

	g := goldie.New(t)
	g.Assert(t, "handler_attrs_before_group", buf.Bytes())
}

func TestPrettyHandler_GroupAttr(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))
	lg.Info("moved", slog.Group("to", slog.Float64("x", 1), slog.Float64("y", 2)), slog.Group("empty"))

	assert.Equal(t, "moved to.x=1 to.y=2\n", buf.String())
}

func TestPrettyHandler_QuotesStrings(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil))
	lg.Warn("snapshot ignored", "reason", "kern.yaml changed", "path", "", "vertex", "v1")

	assert.Equal(t, "! snapshot ignored reason=\"kern.yaml changed\" path=\"\" vertex=v1\n", buf.String())
}
