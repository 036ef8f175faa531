package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fatih/color"
)

const timeLayout = "2006-01-02 15:04:05"

// Handler renders records as
//
//	[2006-01-02 15:04:05] LEVEL > message | key=value key=value
//
// Levels are colored when the output is a terminal.
type Handler struct {
	w      io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
	color  bool
	mu     *sync.Mutex
}

// NewHandler creates a new handler. Colors are enabled only if the writer is a
// terminal, which is decided by fatih/color for stdout/stderr.
func NewHandler(w io.Writer, level slog.Leveler, colored bool) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}

	return &Handler{
		w:     w,
		level: level,
		color: colored && !color.NoColor,
		mu:    new(sync.Mutex),
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteByte('[')
	buf.WriteString(r.Time.Format(timeLayout))
	buf.WriteString("] ")
	buf.WriteString(h.levelString(r.Level))
	buf.WriteString(" > ")
	buf.WriteString(r.Message)

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.resolveAttr(a))
		return true
	})

	if len(attrs) > 0 {
		buf.WriteString(" |")
		for _, a := range attrs {
			if a.Key == "" {
				continue
			}

			buf.WriteByte(' ')
			buf.WriteString(a.Key)
			buf.WriteByte('=')
			buf.WriteString(formatValue(a.Value))
		}
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)

	for _, a := range attrs {
		newAttrs = append(newAttrs, h.resolveAttr(a))
	}

	clone := *h
	clone.attrs = newAttrs
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	groups := make([]string, len(h.groups)+1)
	copy(groups, h.groups)
	groups[len(h.groups)] = name

	clone := *h
	clone.groups = groups
	return &clone
}

func (h *Handler) resolveAttr(a slog.Attr) slog.Attr {
	if len(h.groups) == 0 {
		return a
	}

	key := a.Key
	for i := len(h.groups) - 1; i >= 0; i-- {
		key = h.groups[i] + "." + key
	}

	return slog.Attr{Key: key, Value: a.Value}
}

var (
	debugColor = color.New(color.FgHiBlack)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

// levelString returns the level right-aligned to 5 characters, so messages line up.
func (h *Handler) levelString(level slog.Level) string {
	var (
		text string
		c    *color.Color
	)

	switch {
	case level < slog.LevelInfo:
		text, c = "DEBUG", debugColor
	case level < slog.LevelWarn:
		text, c = " INFO", infoColor
	case level < slog.LevelError:
		text, c = " WARN", warnColor
	default:
		text, c = "ERROR", errorColor
	}

	if !h.color {
		return text
	}

	return c.Sprint(text)
}

func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return fmt.Sprint(v.Any())
	}
}
