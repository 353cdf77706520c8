package ctxlogger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// AppendCtx returns a context carrying the given attr in addition to any
// attrs already stored by previous AppendCtx calls.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	attrs, _ := parent.Value(ctxKey{}).([]slog.Attr)
	newAttrs := make([]slog.Attr, 0, len(attrs)+1)
	newAttrs = append(newAttrs, attrs...)
	newAttrs = append(newAttrs, attr)

	return context.WithValue(parent, ctxKey{}, newAttrs)
}

// ContextHandler decorates a slog.Handler with attrs stored in the context
// via AppendCtx.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(ctxKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}
