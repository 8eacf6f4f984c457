package slogutil

import (
	"context"
	"log/slog"
	"maps"
)

type data map[string]slog.Attr

type dataKey struct{}

func cloneData(ctx context.Context) data {
	d, ok := ctx.Value(dataKey{}).(data)
	if !ok {
		return data{}
	}
	return maps.Clone(d)
}

// With returns a new context carrying the given key-value pairs. Records
// logged through a wrapped handler with this context pick them up as
// attributes.
func With(ctx context.Context, kvargs ...any) context.Context {
	if len(kvargs) == 0 {
		return ctx
	}

	d := cloneData(ctx)

	var r slog.Record
	r.Add(kvargs...)
	r.Attrs(func(a slog.Attr) bool {
		d[a.Key] = a
		return true
	})

	return context.WithValue(ctx, dataKey{}, d)
}

// Attrs returns the attributes carried by the context.
func Attrs(ctx context.Context) []slog.Attr {
	d, ok := ctx.Value(dataKey{}).(data)
	if !ok {
		return nil
	}

	attrs := make([]slog.Attr, 0, len(d))
	for _, v := range d {
		attrs = append(attrs, v)
	}
	return attrs
}
