package logging

import (
	"context"
	"errors"
	"log/slog"
)

// multiHandler fans records out to several handlers, e.g. console and file.
type multiHandler []slog.Handler

// TeeHandler combines handlers. Nil entries are dropped; zero handlers yield
// NoopHandler and a single handler is returned as is.
func TeeHandler(handlers ...slog.Handler) slog.Handler {
	var kept multiHandler
	for _, h := range handlers {
		if h != nil {
			kept = append(kept, h)
		}
	}
	if len(kept) == 0 {
		return NoopHandler{}
	}
	if len(kept) == 1 {
		return kept[0]
	}
	return kept
}

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle gives each handler its own clone since handlers may retain records.
func (m multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range m {
		if h.Enabled(ctx, record.Level) {
			errs = append(errs, h.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	return m.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m multiHandler) derive(fn func(slog.Handler) slog.Handler) multiHandler {
	next := make(multiHandler, len(m))
	for i, h := range m {
		next[i] = fn(h)
	}
	return next
}
