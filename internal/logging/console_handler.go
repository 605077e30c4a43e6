package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one line per record:
//
//	15:04:05.000 INFO  registry (Ambient): collection selected key=value ...
//
// The component and collection attributes become the subject instead of
// trailing key=value pairs.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	addSource bool
	// fields holds attributes bound through WithAttrs, already flattened.
	fields []field
	group  string
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: new(sync.Mutex), w: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := slices.Clone(h.fields)
	record.Attrs(func(a slog.Attr) bool {
		fields = appendFlattened(fields, h.group, a)
		return true
	})
	fields = lastWins(fields)

	var component, collection string
	fields = slices.DeleteFunc(fields, func(f field) bool {
		switch f.key {
		case FieldComponent:
			component = strings.TrimSpace(plainString(f.value))
		case FieldCollection:
			collection = strings.TrimSpace(plainString(f.value))
		default:
			return false
		}
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s ", formatTimestamp(ts), levelLabel(record.Level))
	if subject := subjectOf(component, collection); subject != "" {
		b.WriteString(subject)
		b.WriteString(": ")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	b.WriteString(msg)
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&b, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(formatValue(f.value))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.fields = slices.Clone(h.fields)
	for _, a := range attrs {
		next.fields = appendFlattened(next.fields, h.group, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.group = joinKey(h.group, name)
	return &next
}

// subjectOf renders "component (collection)", dropping whichever part is empty.
func subjectOf(component, collection string) string {
	if collection == "" {
		return component
	}
	return strings.TrimSpace(component + " (" + collection + ")")
}

func joinKey(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

// appendFlattened expands groups into dotted keys.
func appendFlattened(dst []field, group string, a slog.Attr) []field {
	if a.Equal(slog.Attr{}) {
		return dst
	}
	v := a.Value.Resolve()
	if v.Kind() != slog.KindGroup {
		return append(dst, field{key: joinKey(group, a.Key), value: v})
	}
	inner := group
	if a.Key != "" {
		inner = joinKey(group, a.Key)
	}
	for _, child := range v.Group() {
		dst = appendFlattened(dst, inner, child)
	}
	return dst
}

// lastWins keeps the first position of each key with the latest value.
func lastWins(fields []field) []field {
	index := make(map[string]int, len(fields))
	out := fields[:0:0]
	for _, f := range fields {
		if f.key == "" {
			continue
		}
		if i, ok := index[f.key]; ok {
			out[i].value = f.value
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	}
	return "DEBUG"
}
