package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Handler is a compact, colored slog handler for terminals.
type Handler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	prefix string // dotted group path
}

func NewHandler(out io.Writer, level slog.Leveler) *Handler {
	return &Handler{mu: &sync.Mutex{}, out: out, level: level}
}

// New returns a logger writing to out at the named level.
func New(out io.Writer, level string) *slog.Logger {
	return slog.New(NewHandler(out, ParseLevel(level)))
}

// ParseLevel maps debug/info/warn/error to a level; anything else is info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.HiBlueString(level)
	default:
		level = color.MagentaString(level)
	}

	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(r.Time.Format("15:04:05.000"))
		b.WriteByte(' ')
	}
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		next.attrs = append(next.attrs, a)
	}
	return &next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, group, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(color.GreenString(prefix + a.Key))
	b.WriteByte('=')
	fmt.Fprint(b, a.Value.Any())
}
