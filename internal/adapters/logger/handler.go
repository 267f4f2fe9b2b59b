package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/kern/internal/ui/output"
	"go.trai.ch/kern/internal/ui/style"
)

// PrettyHandler is a slog.Handler that writes one line per record: the message colored by
// level, followed by its attributes as key=value pairs.
//
// Attributes added through WithAttrs are rendered once, qualified by the groups open at
// that point. Clones share the output and its lock, so lines from the cache sweep and a
// running command never interleave.
type PrettyHandler struct {
	out    *termenv.Output
	mu     *sync.Mutex
	level  slog.Leveler
	prefix string
	groups []string
}

// NewPrettyHandler creates a new PrettyHandler writing to w. A nil w writes to stderr.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		mu:    &sync.Mutex{},
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes the record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	glyph, color := levelStyle(r.Level)

	var line strings.Builder
	if glyph != "" {
		line.WriteString(glyph + " ")
	}
	line.WriteString(r.Message)
	head := h.out.String(line.String()).Foreground(color).String()

	var attrs strings.Builder
	attrs.WriteString(h.prefix)
	r.Attrs(func(attr slog.Attr) bool {
		appendAttr(&attrs, h.groups, attr)
		return true
	})
	if attrs.Len() > 0 {
		head += h.out.String(attrs.String()).Foreground(termenv.RGBColor(string(style.Slate))).String()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.WriteString(head + "\n")
	return err
}

// WithAttrs returns a Handler that writes attrs after every message.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var b strings.Builder
	b.WriteString(h.prefix)
	for _, attr := range attrs {
		appendAttr(&b, h.groups, attr)
	}
	c := *h
	c.prefix = b.String()
	return &c
}

// WithGroup returns a Handler that qualifies the keys of later attributes with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &c
}

func levelStyle(level slog.Level) (string, termenv.Color) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, termenv.RGBColor(string(style.Red))
	case level >= slog.LevelWarn:
		return style.Warning, termenv.RGBColor(string(style.Yellow))
	default:
		return "", termenv.RGBColor(string(style.Slate))
	}
}

// appendAttr writes " key=value" to b. Group values are flattened into dotted keys and
// empty attributes are dropped.
func appendAttr(b *strings.Builder, groups []string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		inner := groups
		if attr.Key != "" {
			inner = append(groups[:len(groups):len(groups)], attr.Key)
		}
		for _, a := range attr.Value.Group() {
			appendAttr(b, inner, a)
		}
		return
	}

	b.WriteByte(' ')
	for _, g := range groups {
		b.WriteString(g + ".")
	}
	b.WriteString(attr.Key + "=")
	b.WriteString(formatValue(attr.Value))
}

func formatValue(v slog.Value) string {
	s := v.String()
	if v.Kind() == slog.KindString && (s == "" || strings.ContainsAny(s, " \t\n\"=")) {
		return strconv.Quote(s)
	}
	return s
}
