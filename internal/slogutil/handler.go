package slogutil

import (
	"context"
	"log/slog"
	"os"
)

// Handler wraps a slog.Handler and appends the attributes carried by the
// record's context before delegating.
type Handler struct {
	handler slog.Handler
}

// WrapHandler creates a new Handler around the given slog.Handler.
// If the provided handler is nil, a default text handler is used.
func WrapHandler(h slog.Handler) Handler {
	if h == nil {
		h = slog.NewTextHandler(os.Stdout, nil)
	}
	return Handler{handler: h}
}

func (h Handler) Enabled(ctx context.Context, l slog.Level) bool {
	return h.handler.Enabled(ctx, l)
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := Attrs(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{handler: h.handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{handler: h.handler.WithGroup(name)}
}
