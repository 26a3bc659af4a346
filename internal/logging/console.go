package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeLayout = "2006-01-02 15:04:05"

// consoleHandler writes one human readable line per record:
//
//	2026-01-02 15:04:05 INFO assembler [20738183]: downloading chapter chapter_index=2
//
// The component and story_id attributes move into the prefix; every other
// attribute follows the message as key=value.
type consoleHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	level  slog.Leveler
	source bool
	attrs  []field
	group  string
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, level slog.Leveler, source bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, source: source}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := make([]field, 0, len(h.attrs)+record.NumAttrs())
	fields = append(fields, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.group, attr)
		return true
	})

	var component, story string
	rest := fields[:0]
	for _, f := range fields {
		switch {
		case f.key == FieldComponent && component == "":
			component = plainValue(f.value)
		case f.key == FieldStoryID && story == "":
			story = plainValue(f.value)
		case f.key == FieldComponent, f.key == FieldStoryID:
		default:
			rest = append(rest, f)
		}
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString(ts.Local().Format(consoleTimeLayout))
	b.WriteByte(' ')
	b.WriteString(record.Level.String())
	if component != "" {
		b.WriteByte(' ')
		b.WriteString(component)
	}
	if story != "" {
		b.WriteString(" [")
		b.WriteString(story)
		b.WriteByte(']')
	}
	b.WriteString(": ")
	if msg := strings.TrimSpace(record.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}
	if h.source {
		if src := record.Source(); src != nil && src.File != "" {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range rest {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(quotedValue(f.value))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]field, len(h.attrs), len(h.attrs)+len(attrs))
	copy(clone.attrs, h.attrs)
	for _, attr := range attrs {
		clone.attrs = appendField(clone.attrs, h.group, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = joinKey(h.group, name)
	return &clone
}

// appendField flattens groups into dotted keys.
func appendField(dst []field, group string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	if attr.Value.Kind() == slog.KindGroup {
		inner := group
		if attr.Key != "" {
			inner = joinKey(group, attr.Key)
		}
		for _, child := range attr.Value.Group() {
			dst = appendField(dst, inner, child)
		}
		return dst
	}
	return append(dst, field{key: joinKey(group, attr.Key), value: attr.Value})
}

func joinKey(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	default:
		return group + "." + key
	}
}

// plainValue renders v without quoting, for use in the line prefix.
func plainValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.String()
}

// quotedValue renders v for key=value output, quoting strings that would
// otherwise be ambiguous.
func quotedValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString, slog.KindAny, slog.KindTime:
		s := plainValue(v)
		if s == "" || strings.ContainsFunc(s, needsQuote) {
			return strconv.Quote(s)
		}
		return s
	default:
		return v.String()
	}
}

func needsQuote(r rune) bool {
	return r <= ' ' || r == '=' || r == '"' || r == 0x7f
}
