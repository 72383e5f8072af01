package main

import (
	"context"
	"log/slog"
)

// teeHandler fans records out to a primary handler and a secondary one
// (the error log file). The secondary applies its own level filter.
type teeHandler struct {
	primary   slog.Handler
	secondary slog.Handler
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return t.primary.Enabled(ctx, level) || t.secondary.Enabled(ctx, level)
}

func (t teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var err error
	if t.primary.Enabled(ctx, record.Level) {
		err = t.primary.Handle(ctx, record.Clone())
	}
	if t.secondary.Enabled(ctx, record.Level) {
		if handleErr := t.secondary.Handle(ctx, record.Clone()); handleErr != nil && err == nil {
			err = handleErr
		}
	}
	return err
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{
		primary:   t.primary.WithAttrs(attrs),
		secondary: t.secondary.WithAttrs(attrs),
	}
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{
		primary:   t.primary.WithGroup(name),
		secondary: t.secondary.WithGroup(name),
	}
}
